package layout

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"seating-chart-server-go/models"
)

// ErrInvalidSettings wraps every settings validation failure.
var ErrInvalidSettings = errors.New("invalid settings")

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("capacity", func(fl validator.FieldLevel) bool {
		return ValidCapacity(int(fl.Field().Int()))
	})
	return v
}

// Validate checks a settings document the way the settings loader does:
// a class name, well-formed tables whose seat count matches their
// capacity, and groups that name at least one table.
func Validate(s models.AppSettings) error {
	if err := validate.Struct(s); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", ErrInvalidSettings, strings.Join(msgs, "; "))
		}
		return fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}

	seen := make(map[string]struct{}, len(s.Tables))
	for _, t := range s.Tables {
		if len(t.StudentSlots) != t.Capacity {
			return fmt.Errorf("%w: table %s has %d seats for capacity %d",
				ErrInvalidSettings, t.ID, len(t.StudentSlots), t.Capacity)
		}
		if _, dup := seen[t.ID]; dup {
			return fmt.Errorf("%w: duplicate table id %s", ErrInvalidSettings, t.ID)
		}
		seen[t.ID] = struct{}{}
	}

	for _, g := range s.TableGroups {
		if len(g.TableIDs) == 0 {
			return fmt.Errorf("%w: group %s has no tables", ErrInvalidSettings, g.ID)
		}
	}
	return nil
}
