package designer

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hostel-manager/room-designer/internal/models"
)

// IDSource generates unique ids for duplicated elements and regenerated
// bunk levels.
type IDSource interface {
	Unique(prefix string) string
}

// timeIDSource builds ids from a millisecond timestamp and a random suffix.
type timeIDSource struct {
	now func() time.Time
}

func (s timeIDSource) Unique(prefix string) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s", prefix, s.now().UnixMilli(), suffix)
}

// idPrefix is the human-readable id stem for a type.
func idPrefix(t models.ElementType) string {
	if t.IsBed() {
		return "bed"
	}
	return string(t)
}

// nextSequentialID returns the next free <prefix>N, starting from one past
// the number of elements sharing the prefix.
func nextSequentialID(elements []models.Element, t models.ElementType) (string, int) {
	prefix := idPrefix(t)
	used := make(map[string]bool, len(elements))
	count := 0
	for _, e := range elements {
		used[e.ID] = true
		if idPrefix(e.Type) == prefix {
			count++
		}
	}

	n := count + 1
	for used[fmt.Sprintf("%s%d", prefix, n)] {
		n++
	}
	return fmt.Sprintf("%s%d", prefix, n), n
}

// bedLetter maps 1 → A, 26 → Z, 27 → AA.
func bedLetter(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
