package config

// Version is reported by "siko version".
const Version = "0.4.0"

const SourceFileExt = ".sk"

// SourceFileExtensions are all recognized source file extensions
var SourceFileExtensions = []string{".sk", ".siko"}

// ConfigFileNames are searched in this order by FindConfig.
var ConfigFileNames = []string{"siko.yaml", "siko.yml"}

// Module names known to the compiler
const (
	PreludeModule = "Std.Prelude"
	MainModule    = "Main"
	EntryFunction = "main"
)

// Built-in class names
const (
	EqClass   = "Eq"
	OrdClass  = "Ord"
	ShowClass = "Show"
	NumClass  = "Num"
)

// DerivableClasses are the classes a deriving clause may name, in
// the order their implementations are emitted.
var DerivableClasses = []string{EqClass, ShowClass, OrdClass}

// KnownClasses may appear in signature constraints.
var KnownClasses = []string{EqClass, OrdClass, ShowClass, NumClass}

// Built-in type names, all defined by the prelude as extern records.
const (
	IntTypeName    = "Int"
	FloatTypeName  = "Float"
	StringTypeName = "String"
	BoolTypeName   = "Bool"
	ListTypeName   = "List"
	TupleTypeName  = "Tuple"
)

// Qualified returns the fully qualified prelude name of a builtin type.
func Qualified(name string) string {
	return PreludeModule + "." + name
}

// IsDerivable reports whether class may appear in a deriving clause.
func IsDerivable(class string) bool {
	for _, c := range DerivableClasses {
		if c == class {
			return true
		}
	}
	return false
}

// IsKnownClass reports whether class is one of the compiler-known classes.
func IsKnownClass(class string) bool {
	for _, c := range KnownClasses {
		if c == class {
			return true
		}
	}
	return false
}
