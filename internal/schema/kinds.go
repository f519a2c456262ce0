package schema

// Kind handles resolved from the catalog.
var (
	SourceFile                     = mustKind("SourceFile")
	CodeBlockItemList              = mustKind("CodeBlockItemList")
	CodeBlockItem                  = mustKind("CodeBlockItem")
	UnexpectedCode                 = mustKind("UnexpectedCode")
	CodeBlock                      = mustKind("CodeBlock")
	MemberBlock                    = mustKind("MemberBlock")
	MemberBlockItemList            = mustKind("MemberBlockItemList")
	MemberBlockItem                = mustKind("MemberBlockItem")
	AttributeList                  = mustKind("AttributeList")
	Attribute                      = mustKind("Attribute")
	AvailabilitySpecList           = mustKind("AvailabilitySpecList")
	AvailabilityArgument           = mustKind("AvailabilityArgument")
	AvailabilityLabeledArgument    = mustKind("AvailabilityLabeledArgument")
	AvailabilityVersionRestriction = mustKind("AvailabilityVersionRestriction")
	VersionTuple                   = mustKind("VersionTuple")
	DeclModifierList               = mustKind("DeclModifierList")
	DeclModifier                   = mustKind("DeclModifier")
	ImportDecl                     = mustKind("ImportDecl")
	ImportPath                     = mustKind("ImportPath")
	ImportPathComponent            = mustKind("ImportPathComponent")
	FunctionDecl                   = mustKind("FunctionDecl")
	GenericParameterClause         = mustKind("GenericParameterClause")
	GenericParameterList           = mustKind("GenericParameterList")
	GenericParameter               = mustKind("GenericParameter")
	FunctionSignature              = mustKind("FunctionSignature")
	FunctionParameterClause        = mustKind("FunctionParameterClause")
	FunctionParameterList          = mustKind("FunctionParameterList")
	FunctionParameter              = mustKind("FunctionParameter")
	ReturnClause                   = mustKind("ReturnClause")
	OperatorDecl                   = mustKind("OperatorDecl")
	ClassDecl                      = mustKind("ClassDecl")
	StructDecl                     = mustKind("StructDecl")
	EnumDecl                       = mustKind("EnumDecl")
	ProtocolDecl                   = mustKind("ProtocolDecl")
	ExtensionDecl                  = mustKind("ExtensionDecl")
	InheritanceClause              = mustKind("InheritanceClause")
	InheritedTypeList              = mustKind("InheritedTypeList")
	InheritedType                  = mustKind("InheritedType")
	EnumCaseDecl                   = mustKind("EnumCaseDecl")
	EnumCaseElementList            = mustKind("EnumCaseElementList")
	EnumCaseElement                = mustKind("EnumCaseElement")
	AssociatedTypeDecl             = mustKind("AssociatedTypeDecl")
	VariableDecl                   = mustKind("VariableDecl")
	PatternBindingList             = mustKind("PatternBindingList")
	PatternBinding                 = mustKind("PatternBinding")
	IdentifierPattern              = mustKind("IdentifierPattern")
	WildcardPattern                = mustKind("WildcardPattern")
	TypeAnnotation                 = mustKind("TypeAnnotation")
	InitializerClause              = mustKind("InitializerClause")
	MissingDecl                    = mustKind("MissingDecl")
	ReturnStmt                     = mustKind("ReturnStmt")
	IdentifierType                 = mustKind("IdentifierType")
	MemberType                     = mustKind("MemberType")
	OptionalType                   = mustKind("OptionalType")
	ArrayType                      = mustKind("ArrayType")
	MissingType                    = mustKind("MissingType")
	GenericArgumentClause          = mustKind("GenericArgumentClause")
	GenericArgumentList            = mustKind("GenericArgumentList")
	GenericArgument                = mustKind("GenericArgument")
	DeclReferenceExpr              = mustKind("DeclReferenceExpr")
	DiscardAssignmentExpr          = mustKind("DiscardAssignmentExpr")
	IntegerLiteralExpr             = mustKind("IntegerLiteralExpr")
	FloatLiteralExpr               = mustKind("FloatLiteralExpr")
	BooleanLiteralExpr             = mustKind("BooleanLiteralExpr")
	NilLiteralExpr                 = mustKind("NilLiteralExpr")
	StringLiteralExpr              = mustKind("StringLiteralExpr")
	StringLiteralSegmentList       = mustKind("StringLiteralSegmentList")
	StringSegment                  = mustKind("StringSegment")
	ExpressionSegment              = mustKind("ExpressionSegment")
	SequenceExpr                   = mustKind("SequenceExpr")
	ExprList                       = mustKind("ExprList")
	BinaryOperatorExpr             = mustKind("BinaryOperatorExpr")
	AssignmentExpr                 = mustKind("AssignmentExpr")
	PrefixOperatorExpr             = mustKind("PrefixOperatorExpr")
	PostfixOperatorExpr            = mustKind("PostfixOperatorExpr")
	MemberAccessExpr               = mustKind("MemberAccessExpr")
	FunctionCallExpr               = mustKind("FunctionCallExpr")
	LabeledExprList                = mustKind("LabeledExprList")
	LabeledExpr                    = mustKind("LabeledExpr")
	ClosureExpr                    = mustKind("ClosureExpr")
	TupleExpr                      = mustKind("TupleExpr")
	ArrayExpr                      = mustKind("ArrayExpr")
	ArrayElementList               = mustKind("ArrayElementList")
	ArrayElement                   = mustKind("ArrayElement")
	EditorPlaceholderExpr          = mustKind("EditorPlaceholderExpr")
	UnknownExpr                    = mustKind("UnknownExpr")
	MissingExpr                    = mustKind("MissingExpr")
)
