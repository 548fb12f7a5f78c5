package ast

// ScriptNameFlag is one of the flags a ScriptNameStatement may carry.
type ScriptNameFlag string

const (
	ScriptNameConditional ScriptNameFlag = "Conditional"
	ScriptNameHidden      ScriptNameFlag = "Hidden"
)

// ScriptNameStatement is the script's single top-level name declaration
// (spec §4.3.2). At most one may appear per Program.
type ScriptNameStatement struct {
	BaseNode
	ID      *Identifier          `json:"id"`
	Extends *ExtendsDeclaration  `json:"extends,omitempty"`
	Flags   []ScriptNameFlag     `json:"flags"`
}

func (s *ScriptNameStatement) IsConditional() bool {
	return hasFlag(s.Flags, ScriptNameConditional)
}

func (s *ScriptNameStatement) IsHidden() bool {
	return hasFlag(s.Flags, ScriptNameHidden)
}

func hasFlag[T comparable](flags []T, want T) bool {
	for _, f := range flags {
		if f == want {
			return true
		}
	}
	return false
}

// ExtendsDeclaration names the parent script in "ScriptName X extends Y".
type ExtendsDeclaration struct {
	BaseNode
	Extended *Identifier `json:"extended"`
}

// ImportStatement names a script imported into scope. The parser does
// not resolve or validate the identifier (spec Non-goals: no
// name resolution or cross-file linking).
type ImportStatement struct {
	BaseNode
	ID *Identifier `json:"id"`
}

// PropertyFlag is one of the flags a PropertyDeclaration may carry.
type PropertyFlag string

const (
	PropertyAuto         PropertyFlag = "Auto"
	PropertyAutoReadOnly PropertyFlag = "AutoReadOnly"
	PropertyConditional  PropertyFlag = "Conditional"
	PropertyHidden       PropertyFlag = "Hidden"
)

// PropertyDeclaration is a property with no explicit body: either a
// plain auto-backed property or (when it carries no Auto/AutoReadOnly
// flag) the header portion of what becomes a PropertyFullDeclaration
// (spec §4.3.6).
type PropertyDeclaration struct {
	BaseNode
	ID    *Identifier    `json:"id"`
	Kind  string         `json:"kind"`
	Init  Node           `json:"init,omitempty"`
	Flags []PropertyFlag `json:"flags"`
}

func (p *PropertyDeclaration) HasNoFlags() bool { return len(p.Flags) == 0 }

func (p *PropertyDeclaration) IsAuto() bool         { return hasFlag(p.Flags, PropertyAuto) }
func (p *PropertyDeclaration) IsAutoReadOnly() bool { return hasFlag(p.Flags, PropertyAutoReadOnly) }
func (p *PropertyDeclaration) IsConditional() bool  { return hasFlag(p.Flags, PropertyConditional) }
func (p *PropertyDeclaration) IsHidden() bool       { return hasFlag(p.Flags, PropertyHidden) }

// PropertyFullDeclaration is a property with an explicit Get/Set body
// terminated by EndProperty (spec §4.3.6).
type PropertyFullDeclaration struct {
	PropertyDeclaration
	Getter *FunctionStatement `json:"getter,omitempty"`
	Setter *FunctionStatement `json:"setter,omitempty"`
}

// FunctionFlag is one of the flags a FunctionStatement may carry.
type FunctionFlag string

const (
	FunctionGlobal FunctionFlag = "Global"
	FunctionNative FunctionFlag = "Native"
)

// FunctionStatement is "[<Type>] Function <Name>(<params>) [Global]
// [Native] ... EndFunction" (spec §4.3.3). Body is nil when Native.
type FunctionStatement struct {
	BaseNode
	ID     *Identifier           `json:"id"`
	Kind   string                `json:"kind"`
	Params []*VariableDeclaration `json:"params"`
	Flags  []FunctionFlag        `json:"flags"`
	Body   *BlockStatement       `json:"body,omitempty"`
}

func (f *FunctionStatement) IsGlobal() bool { return hasFlag(f.Flags, FunctionGlobal) }
func (f *FunctionStatement) IsNative() bool { return hasFlag(f.Flags, FunctionNative) }

// EventFlag is the single flag an EventStatement may carry.
type EventFlag string

const EventNative EventFlag = "Native"

// EventStatement is the Event analogue of FunctionStatement: no return
// type, and only Native is a legal flag (spec §4.3.4).
type EventStatement struct {
	BaseNode
	ID     *Identifier           `json:"id"`
	Params []*VariableDeclaration `json:"params"`
	Flags  []EventFlag           `json:"flags"`
	Body   *BlockStatement       `json:"body,omitempty"`
}

func (e *EventStatement) IsNative() bool { return hasFlag(e.Flags, EventNative) }

// StateStatement is a named container restricted to Function/Event
// children (spec §4.3.5).
type StateStatement struct {
	BaseNode
	ID   *Identifier     `json:"id"`
	Auto bool            `json:"auto"`
	Body *BlockStatement `json:"body"`
}
