package container

import (
	"fmt"
	"reflect"
	"strings"
	"unicode"
	"unicode/utf8"
)

var errorType = reflect.TypeFor[error]()

// IsSignature reports whether spec is a "Class@method" string.
func IsSignature(spec any) bool {
	s, ok := spec.(string)
	return ok && strings.Contains(s, "@")
}

// Call resolves spec against c and invokes it with params spread
// positionally. spec is one of:
//   - "Class@method"; with an empty method segment def is used
//   - []any{target, method} or []string{target, method}; method may be
//     omitted, in which case def is used
//   - a function value, invoked directly
//
// A string target that is not bound yet is bound with Make(target, nil)
// before it is resolved, so calling a class by name auto-wires it.
//
//	out, err := container.Call(c, `App\Greeter@greet`, []any{"world"}, "")
func Call(c *Container, spec any, params []any, def string) (any, error) {
	if IsSignature(spec) {
		return callSignature(c, spec.(string), params, def)
	}
	return callMethod(c, spec, params, def)
}

// Call is Call(c, spec, params, "").
func (c *Container) Call(spec any, params ...any) (any, error) {
	return Call(c, spec, params, "")
}

// CallDefault is Call with def used when spec names no method.
func (c *Container) CallDefault(spec any, def string, params ...any) (any, error) {
	return Call(c, spec, params, def)
}

func callSignature(c *Container, signature string, params []any, def string) (any, error) {
	class, method, _ := strings.Cut(signature, "@")
	if method == "" {
		method = def
	}
	if method == "" {
		return nil, errInvalidSpecification(fmt.Sprintf("method not defined in %q", signature))
	}
	return callMethod(c, []any{class, method}, params, "")
}

func callMethod(c *Container, spec any, params []any, def string) (any, error) {
	var (
		target any
		method string
	)

	switch s := spec.(type) {
	case []any:
		if len(s) == 0 || len(s) > 2 {
			return nil, errInvalidSpecification(fmt.Sprintf("expected [target, method], got %d elements", len(s)))
		}
		target = s[0]
		if len(s) == 2 {
			m, ok := s[1].(string)
			if !ok {
				return nil, errInvalidSpecification(fmt.Sprintf("method name must be a string, got %T", s[1]))
			}
			method = m
		}
	case []string:
		if len(s) == 0 || len(s) > 2 {
			return nil, errInvalidSpecification(fmt.Sprintf("expected [target, method], got %d elements", len(s)))
		}
		target = s[0]
		if len(s) == 2 {
			method = s[1]
		}
	case [2]string:
		target, method = s[0], s[1]
	default:
		if isFunc(spec) {
			return invoke(reflect.ValueOf(spec), params)
		}
		return nil, errInvalidSpecification(fmt.Sprintf("cannot call %T", spec))
	}

	if method == "" {
		method = def
	}

	instance := target
	if key, ok := target.(string); ok {
		resolved, err := c.autowire(key)
		if err != nil {
			return nil, err
		}
		instance = resolved
	}

	if method == "" {
		if isFunc(instance) {
			return invoke(reflect.ValueOf(instance), params)
		}
		return nil, errInvalidSpecification("method not defined")
	}

	return Invoke(instance, method, params...)
}

// autowire binds key as a bare instance of the class it names when it is not
// bound yet, then resolves it.
func (c *Container) autowire(key string) (any, error) {
	created := false
	if !c.Has(key) {
		if err := c.Make(key, nil); err != nil {
			return nil, err
		}
		created = true
	}

	instance, err := c.Get(key)
	if err != nil {
		if created {
			c.Unmake(key)
		}
		return nil, err
	}
	if instance == nil {
		return nil, errNotFound(key)
	}
	return instance, nil
}

// Invoke calls method on target with args spread positionally. The method is
// looked up by its exact name first and then with the first letter upper
// cased, so "greet" finds Greet. When the last result is an error it is
// returned as the error of the call.
func Invoke(target any, method string, args ...any) (any, error) {
	if target == nil {
		return nil, errInvalidSpecification(fmt.Sprintf("cannot call %s on nil", method))
	}
	m := lookupMethod(reflect.ValueOf(target), method)
	if !m.IsValid() {
		return nil, errUndefinedMethod(target, method)
	}
	return invoke(m, args)
}

func lookupMethod(v reflect.Value, name string) reflect.Value {
	if m := v.MethodByName(name); m.IsValid() {
		return m
	}
	r, size := utf8.DecodeRuneInString(name)
	if r == utf8.RuneError || unicode.IsUpper(r) {
		return reflect.Value{}
	}
	return v.MethodByName(string(unicode.ToUpper(r)) + name[size:])
}

func invoke(fn reflect.Value, args []any) (any, error) {
	in, err := callArgs(fn.Type(), args)
	if err != nil {
		return nil, err
	}

	out := fn.Call(in)
	if len(out) == 0 {
		return nil, nil
	}

	last := out[len(out)-1]
	if last.Type() == errorType {
		if !last.IsNil() {
			err = last.Interface().(error)
		}
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return nil, err
	}
	return out[0].Interface(), err
}

func callArgs(t reflect.Type, args []any) ([]reflect.Value, error) {
	n := t.NumIn()
	if t.IsVariadic() {
		if len(args) < n-1 {
			return nil, errInvalidSpecification(fmt.Sprintf("expected at least %d arguments, got %d", n-1, len(args)))
		}
	} else if len(args) != n {
		return nil, errInvalidSpecification(fmt.Sprintf("expected %d arguments, got %d", n, len(args)))
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		var pt reflect.Type
		if t.IsVariadic() && i >= n-1 {
			pt = t.In(n - 1).Elem()
		} else {
			pt = t.In(i)
		}

		v, err := argValue(arg, pt, i)
		if err != nil {
			return nil, err
		}
		in[i] = v
	}
	return in, nil
}

func argValue(arg any, pt reflect.Type, pos int) (reflect.Value, error) {
	if arg == nil {
		switch pt.Kind() {
		case reflect.Chan, reflect.Func, reflect.Interface, reflect.Map, reflect.Pointer, reflect.Slice:
			return reflect.Zero(pt), nil
		}
		return reflect.Value{}, errInvalidSpecification(fmt.Sprintf("argument %d: nil is not a valid %s", pos, pt))
	}

	v := reflect.ValueOf(arg)
	if v.Type().AssignableTo(pt) {
		return v, nil
	}
	if isNumeric(v.Kind()) && isNumeric(pt.Kind()) && v.CanConvert(pt) {
		return v.Convert(pt), nil
	}
	return reflect.Value{}, errInvalidSpecification(fmt.Sprintf("argument %d: %s is not assignable to %s", pos, v.Type(), pt))
}

func isNumeric(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	}
	return false
}
