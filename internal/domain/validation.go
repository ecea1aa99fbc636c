package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/phrazzld/liftplan/internal/domain/setconfig"
)

// Issue is a single validation failure. Path uses json field names, e.g.
// "sessions[0].groups[1].appliedExercises[0].setConfiguration.counts".
type Issue struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// ValidationError carries every issue found for one value.
type ValidationError struct {
	Issues []Issue `json:"issues"`
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Issues))
	for i, is := range e.Issues {
		parts[i] = is.Path + ": " + is.Message
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error { return ErrValidation }

// ValidationResult is the outcome of validating a plain data shape. Data is
// populated on success; Error is populated otherwise.
type ValidationResult[T any] struct {
	Success bool
	Data    T
	Error   *ValidationError
}

// Err returns Error as an error, or nil on success.
func (r ValidationResult[T]) Err() error {
	if r.Success {
		return nil
	}
	return r.Error
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// issues collects struct-tag failures and coded rules into one list.
type issues []Issue

func (is *issues) add(path, code, format string, args ...any) {
	*is = append(*is, Issue{Path: path, Code: code, Message: fmt.Sprintf(format, args...)})
}

func (is *issues) addStruct(v any) {
	err := validate.Struct(v)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		is.add("", "invalid", "%v", err)
		return
	}
	for _, fe := range verrs {
		path := fe.Namespace()
		// drop the root type name
		if i := strings.IndexByte(path, '.'); i >= 0 {
			path = path[i+1:]
		}
		*is = append(*is, Issue{Path: path, Code: fe.Tag(), Message: tagMessage(fe)})
	}
}

func (is *issues) addSetConfiguration(prefix string, d setconfig.Data) {
	for _, p := range d.Problems() {
		is.add(join(prefix, p.Field), p.Code, "%s", p.Message)
	}
}

func result[T any](data T, found issues) ValidationResult[T] {
	if len(found) == 0 {
		return ValidationResult[T]{Success: true, Data: data}
	}
	return ValidationResult[T]{Error: &ValidationError{Issues: found}}
}

func tagMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gte":
		return "must be at least " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "lte":
		return "must be at most " + fe.Param()
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	case "min":
		return "must have at least " + fe.Param() + " characters"
	default:
		return "failed the '" + fe.Tag() + "' rule"
	}
}

func join(prefix, path string) string {
	if prefix == "" {
		return path
	}
	if path == "" {
		return prefix
	}
	return prefix + "." + path
}

func indexed(prefix, field string, i int) string {
	return join(prefix, fmt.Sprintf("%s[%d]", field, i))
}

// checkUniqueIDs reports every id that repeats an earlier sibling.
func checkUniqueIDs(found *issues, prefix, field string, ids []string) {
	seen := make(map[string]struct{}, len(ids))
	for i, id := range ids {
		if _, dup := seen[id]; dup {
			found.add(indexed(prefix, field, i)+".id", "duplicate", "duplicate id %q", id)
			continue
		}
		seen[id] = struct{}{}
	}
}

func checkProfile(found *issues, path, parent, child string) {
	if parent != "" && child != "" && parent != child {
		found.add(path+".profileId", "profile_mismatch", "must match the owning profile %q", parent)
	}
}

// owners maps each child id seen in an aggregate to the path of its parent,
// so one group or exercise cannot hang under two parents of the same tree.
type owners map[string]string

// claim records id under parent. Repeats among siblings are left to
// checkUniqueIDs; a repeat under a different parent is reported at path.
func (o owners) claim(found *issues, path, parent, id string) {
	if id == "" {
		return
	}
	prev, seen := o[id]
	if !seen {
		o[id] = parent
		return
	}
	if prev != parent {
		found.add(path+".id", "duplicate", "id %q is already used under %s", id, describe(prev))
	}
}

func describe(path string) string {
	if path == "" {
		return "the root"
	}
	return path
}

// checkTreeIDs reports groups and exercises whose ids appear under more than
// one parent anywhere in the sessions.
func checkTreeIDs(found *issues, prefix string, sessions []SessionData) {
	groups, exercises := owners{}, owners{}
	for i, s := range sessions {
		sp := indexed(prefix, "sessions", i)
		for j, g := range s.Groups {
			gp := indexed(sp, "groups", j)
			groups.claim(found, gp, sp, g.ID)
			for k, e := range g.AppliedExercises {
				exercises.claim(found, indexed(gp, "appliedExercises", k), gp, e.ID)
			}
		}
	}
}

// checkGroupExerciseIDs is checkTreeIDs for a standalone session.
func checkGroupExerciseIDs(found *issues, prefix string, groups []ExerciseGroupData) {
	exercises := owners{}
	for j, g := range groups {
		gp := indexed(prefix, "groups", j)
		for k, e := range g.AppliedExercises {
			exercises.claim(found, indexed(gp, "appliedExercises", k), gp, e.ID)
		}
	}
}
