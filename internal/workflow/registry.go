package workflow

import (
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/roach88/graphsmith/internal/pipeline"
)

var recipeNamePattern = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// ErrUnknownRecipe matches lookups of unregistered recipe names.
var ErrUnknownRecipe = errors.New("unknown recipe")

// UnknownRecipeError reports a recipe name that is not registered.
type UnknownRecipeError struct {
	Name  string
	Known []string
}

func (e *UnknownRecipeError) Error() string {
	return fmt.Sprintf("unknown recipe %q (known: %s)", e.Name, strings.Join(e.Known, ", "))
}

func (e *UnknownRecipeError) Is(target error) bool {
	return target == ErrUnknownRecipe
}

// DescriptorError lists the problems that kept a descriptor out of the
// registry.
type DescriptorError struct {
	Name     string
	Problems []string
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("invalid recipe %q: %s", e.Name, strings.Join(e.Problems, "; "))
}

// Registry holds descriptors by name. Safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	byName   map[string]*Descriptor
	validate *validator.Validate
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	v := validator.New()
	// Registration cannot fail: the tag and function are fixed.
	_ = v.RegisterValidation("recipe_name", func(fl validator.FieldLevel) bool {
		return recipeNamePattern.MatchString(fl.Field().String())
	})
	return &Registry{byName: map[string]*Descriptor{}, validate: v}
}

// Register adds d. It fails when metadata is invalid, a stage name repeats or
// the name is taken.
func (r *Registry) Register(d *Descriptor) error {
	if d == nil {
		return &DescriptorError{Problems: []string{"descriptor is nil"}}
	}
	if problems := r.check(d); len(problems) > 0 {
		return &DescriptorError{Name: d.Name, Problems: problems}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byName[d.Name]; ok {
		return &DescriptorError{Name: d.Name, Problems: []string{"already registered"}}
	}
	r.byName[d.Name] = d
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(ds ...*Descriptor) *Registry {
	for _, d := range ds {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

func (r *Registry) check(d *Descriptor) []string {
	var problems []string
	if err := r.validate.Struct(d); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return []string{err.Error()}
		}
		for _, fe := range verrs {
			problems = append(problems, describeFieldError(fe))
		}
	}

	seen := map[string]bool{}
	for i, st := range append(slices.Clip(d.Stages), d.Terminal) {
		if st == nil {
			if i < len(d.Stages) {
				problems = append(problems, fmt.Sprintf("stage %d is nil", i))
			}
			continue
		}
		name := st.Name()
		switch {
		case name == "":
			problems = append(problems, fmt.Sprintf("stage %d has no name", i))
		case seen[name]:
			problems = append(problems, fmt.Sprintf("stage name %q repeats", name))
		case i < len(d.Stages) && name == pipeline.TerminalStageName:
			problems = append(problems, fmt.Sprintf("stage name %q is reserved for the terminal stage", name))
		}
		seen[name] = true
	}
	return problems
}

func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return strings.ToLower(fe.Field()) + " is required"
	case "recipe_name":
		return fmt.Sprintf("name %q must match %s", fe.Value(), recipeNamePattern)
	case "max":
		return fmt.Sprintf("%s exceeds %s characters", strings.ToLower(fe.Field()), fe.Param())
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", strings.ToLower(fe.Field()), fe.Param())
	default:
		return fmt.Sprintf("%s fails %s", strings.ToLower(fe.Field()), fe.Tag())
	}
}

// Get returns the descriptor registered under name.
func (r *Registry) Get(name string) (*Descriptor, error) {
	r.mu.RLock()
	d, ok := r.byName[name]
	r.mu.RUnlock()
	if !ok {
		return nil, &UnknownRecipeError{Name: name, Known: r.Names()}
	}
	return d, nil
}

// Names returns registered names sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.byName))
	for name := range r.byName {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// List returns the descriptors sorted by name.
func (r *Registry) List() []*Descriptor {
	names := r.Names()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Descriptor, 0, len(names))
	for _, name := range names {
		if d, ok := r.byName[name]; ok {
			out = append(out, d)
		}
	}
	return out
}
