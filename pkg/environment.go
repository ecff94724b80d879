package glox

// Environment maps names to values for one runtime scope. Environments are
// shared by pointer: closures keep their defining environment alive and see
// every later mutation of it.
type Environment struct {
	enclosing *Environment
	values    map[string]Value
}

func NewEnvironment(enclosing *Environment) *Environment {
	return &Environment{
		enclosing: enclosing,
		values:    make(map[string]Value),
	}
}

func (e *Environment) Enclosing() *Environment {
	return e.enclosing
}

// Define binds name in this scope, replacing any previous binding.
func (e *Environment) Define(name string, val Value) {
	e.values[name] = val
}

// Get looks name up in this scope and then along the enclosing chain.
func (e *Environment) Get(name Token) (Value, error) {
	for env := e; env != nil; env = env.enclosing {
		if val, ok := env.values[name.Lexeme]; ok {
			return val, nil
		}
	}

	return nil, runtimeErrorf(NameError, name, "Undefined variable '%s'.", name.Lexeme)
}

// Assign overwrites the nearest existing binding of name.
func (e *Environment) Assign(name Token, val Value) error {
	for env := e; env != nil; env = env.enclosing {
		if _, ok := env.values[name.Lexeme]; ok {
			env.values[name.Lexeme] = val
			return nil
		}
	}

	return runtimeErrorf(NameError, name, "Undefined variable '%s'.", name.Lexeme)
}

// GetAt reads name from the scope exactly distance links up. The resolver
// guarantees the binding exists there.
func (e *Environment) GetAt(distance int, name string) Value {
	return e.ancestor(distance).values[name]
}

func (e *Environment) AssignAt(distance int, name string, val Value) {
	e.ancestor(distance).values[name] = val
}

func (e *Environment) ancestor(distance int) *Environment {
	env := e
	for i := 0; i < distance; i++ {
		env = env.enclosing
	}

	return env
}
