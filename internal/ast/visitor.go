package ast

// Visitor is implemented by tree walkers such as the code printer.
type Visitor interface {
	VisitModule(n *Module)
	VisitImport(n *Import)
	VisitAdtDef(n *AdtDef)
	VisitRecordDef(n *RecordDef)
	VisitFunctionSignature(n *FunctionSignature)
	VisitFunction(n *Function)

	VisitLambda(n *Lambda)
	VisitFunctionCall(n *FunctionCall)
	VisitBuiltin(n *Builtin)
	VisitIf(n *If)
	VisitTuple(n *Tuple)
	VisitList(n *List)
	VisitPath(n *Path)
	VisitIntLit(n *IntLit)
	VisitFloatLit(n *FloatLit)
	VisitStringLit(n *StringLit)
	VisitBoolLit(n *BoolLit)
	VisitDo(n *Do)
	VisitBind(n *Bind)
	VisitFieldAccess(n *FieldAccess)
	VisitTupleFieldAccess(n *TupleFieldAccess)
	VisitFormatter(n *Formatter)
	VisitCaseOf(n *CaseOf)
	VisitCase(n *Case)
	VisitRecordInitialization(n *RecordInitialization)
	VisitRecordUpdate(n *RecordUpdate)

	VisitVariantPattern(n *VariantPattern)
	VisitTuplePattern(n *TuplePattern)
	VisitIntPattern(n *IntPattern)
	VisitFloatPattern(n *FloatPattern)
	VisitStringPattern(n *StringPattern)
	VisitBoolPattern(n *BoolPattern)
	VisitBindPattern(n *BindPattern)
	VisitWildcardPattern(n *WildcardPattern)

	VisitNamedType(n *NamedType)
	VisitVarType(n *VarType)
	VisitListType(n *ListType)
	VisitTupleType(n *TupleType)
	VisitFuncType(n *FuncType)
}
