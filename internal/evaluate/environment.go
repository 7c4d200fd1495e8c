package evaluate

// Environment is one lexical scope: a set of bindings plus the scope it
// was created in. Scopes are created for the top level and for each
// function call; if branches and operator operands run in the scope that
// contains them.
type Environment struct {
	store map[string]Value
	outer *Environment
}

func NewEnvironment() *Environment {
	return &Environment{
		store: make(map[string]Value),
	}
}

// Child creates a scope whose lookups fall through to this one.
func (e *Environment) Child() *Environment {
	return &Environment{
		store: make(map[string]Value),
		outer: e,
	}
}

func (e *Environment) Get(name string) (Value, bool) {
	for env := e; env != nil; env = env.outer {
		if value, ok := env.store[name]; ok {
			return value, true
		}
	}

	return nil, false
}

// Define binds a name in this scope, shadowing any outer binding.
func (e *Environment) Define(name string, value Value) {
	e.store[name] = value
}

// Set rebinds the nearest scope that already owns the name, so an
// assignment inside a function body can update a captured variable. An
// unbound name is defined in this scope.
func (e *Environment) Set(name string, value Value) {
	for env := e; env != nil; env = env.outer {
		if _, ok := env.store[name]; ok {
			env.store[name] = value

			return
		}
	}

	e.store[name] = value
}
