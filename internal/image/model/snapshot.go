package model

// Snapshot is the on-disk description of a process image.
//
// Layout of a snapshot file:
//
//	pointer_size = 8
//
//	[constants]             named integers of the environment (enum bounds, macros)
//	[[types]]               struct and typedef declarations
//	[[objects]]             typed structure instances placed at an address
//	[[strings]]             NUL-terminated strings placed at an address
//	[[arrays]]              typed element runs placed at an address
//	[[globals]]             named roots, either located at an address or holding a value
type Snapshot struct {
	PointerSize int              `toml:"pointer_size"`
	Constants   map[string]int64 `toml:"constants"`
	Types       []TypeDecl       `toml:"types"`
	Objects     []ObjectDecl     `toml:"objects"`
	Strings     []StringDecl     `toml:"strings"`
	Arrays      []ArrayDecl      `toml:"arrays"`
	Globals     []GlobalDecl     `toml:"globals"`
}

// TypeDecl declares a struct (Fields) or a typedef (Target)
type TypeDecl struct {
	Name   string      `toml:"name"`
	Kind   string      `toml:"kind"`
	Target string      `toml:"target"`
	Fields []FieldDecl `toml:"fields"`
}

type FieldDecl struct {
	Name string `toml:"name"`
	Type string `toml:"type"`
}

// ObjectDecl places a value of Type at Address. Values maps field names to
// integers, floats, booleans, addresses, nested tables or arrays; a string
// given for a char pointer is interned automatically.
type ObjectDecl struct {
	Address uint64         `toml:"address"`
	Type    string         `toml:"type"`
	Values  map[string]any `toml:"values"`
}

type StringDecl struct {
	Address uint64 `toml:"address"`
	Value   string `toml:"value"`
}

// ArrayDecl places len(Values) elements of type Elem at Address
type ArrayDecl struct {
	Address uint64 `toml:"address"`
	Elem    string `toml:"elem"`
	Values  []any  `toml:"values"`
}

// GlobalDecl names a root. With Address set it is an lvalue read from memory,
// otherwise it is the constant Value of Type.
type GlobalDecl struct {
	Name    string `toml:"name"`
	Type    string `toml:"type"`
	Address uint64 `toml:"address"`
	Value   any    `toml:"value"`
}
