package tokens

import "fmt"

// Kind is the lexical class the host tokenizer assigned to a token.
type Kind int

const (
	Unknown Kind = iota
	OpenTag
	CloseTag
	InlineHTML
	Whitespace
	Comment
	DocComment
	String
	Variable
	Number
	ConstantString
	OpenCurlyBracket
	CloseCurlyBracket
	OpenParenthesis
	CloseParenthesis
	OpenSquareBracket
	CloseSquareBracket
	Semicolon
	Colon
	Comma
	Equal
	BitwiseAnd
	Operator

	Class
	AnonClass
	Interface
	Trait
	Enum
	Namespace
	Function
	Closure
	Fn
	Use

	If
	Else
	Elseif
	Endif
	Switch
	Endswitch
	Case
	Default
	Break
	While
	Endwhile
	Do
	For
	Endfor
	Foreach
	Endforeach
	Try
	Catch
	Finally
	Declare
	Enddeclare
	Match
	Return

	Public
	Protected
	Private
	Static
	Final
	Abstract
	Readonly
	Var
	Attribute
)

var kindNames = map[Kind]string{
	Unknown:            "T_UNKNOWN",
	OpenTag:            "T_OPEN_TAG",
	CloseTag:           "T_CLOSE_TAG",
	InlineHTML:         "T_INLINE_HTML",
	Whitespace:         "T_WHITESPACE",
	Comment:            "T_COMMENT",
	DocComment:         "T_DOC_COMMENT",
	String:             "T_STRING",
	Variable:           "T_VARIABLE",
	Number:             "T_LNUMBER",
	ConstantString:     "T_CONSTANT_ENCAPSED_STRING",
	OpenCurlyBracket:   "T_OPEN_CURLY_BRACKET",
	CloseCurlyBracket:  "T_CLOSE_CURLY_BRACKET",
	OpenParenthesis:    "T_OPEN_PARENTHESIS",
	CloseParenthesis:   "T_CLOSE_PARENTHESIS",
	OpenSquareBracket:  "T_OPEN_SQUARE_BRACKET",
	CloseSquareBracket: "T_CLOSE_SQUARE_BRACKET",
	Semicolon:          "T_SEMICOLON",
	Colon:              "T_COLON",
	Comma:              "T_COMMA",
	Equal:              "T_EQUAL",
	BitwiseAnd:         "T_BITWISE_AND",
	Operator:           "T_OPERATOR",
	Class:              "T_CLASS",
	AnonClass:          "T_ANON_CLASS",
	Interface:          "T_INTERFACE",
	Trait:              "T_TRAIT",
	Enum:               "T_ENUM",
	Namespace:          "T_NAMESPACE",
	Function:           "T_FUNCTION",
	Closure:            "T_CLOSURE",
	Fn:                 "T_FN",
	Use:                "T_USE",
	If:                 "T_IF",
	Else:               "T_ELSE",
	Elseif:             "T_ELSEIF",
	Endif:              "T_ENDIF",
	Switch:             "T_SWITCH",
	Endswitch:          "T_ENDSWITCH",
	Case:               "T_CASE",
	Default:            "T_DEFAULT",
	Break:              "T_BREAK",
	While:              "T_WHILE",
	Endwhile:           "T_ENDWHILE",
	Do:                 "T_DO",
	For:                "T_FOR",
	Endfor:             "T_ENDFOR",
	Foreach:            "T_FOREACH",
	Endforeach:         "T_ENDFOREACH",
	Try:                "T_TRY",
	Catch:              "T_CATCH",
	Finally:            "T_FINALLY",
	Declare:            "T_DECLARE",
	Enddeclare:         "T_ENDDECLARE",
	Match:              "T_MATCH",
	Return:             "T_RETURN",
	Public:             "T_PUBLIC",
	Protected:          "T_PROTECTED",
	Private:            "T_PRIVATE",
	Static:             "T_STATIC",
	Final:              "T_FINAL",
	Abstract:           "T_ABSTRACT",
	Readonly:           "T_READONLY",
	Var:                "T_VAR",
	Attribute:          "T_ATTRIBUTE",
}

var kindsByName = func() map[string]Kind {
	m := make(map[string]Kind, len(kindNames))
	for k, name := range kindNames {
		m[name] = k
	}
	return m
}()

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind resolves a T_* name to its Kind.
func ParseKind(name string) (Kind, error) {
	if k, ok := kindsByName[name]; ok {
		return k, nil
	}
	return Unknown, fmt.Errorf("unknown token kind %q", name)
}

func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// ScopeOpeners lists the kinds that may open a lexical scope.
var ScopeOpeners = []Kind{
	Class, AnonClass, Interface, Trait, Enum, Namespace,
	Function, Closure, Use,
	If, Else, Elseif, Switch, Case, Default,
	While, Do, For, Foreach,
	Try, Catch, Finally, Declare, Match,
}

// OOScopes lists the class-like kinds that may own methods.
var OOScopes = []Kind{Class, AnonClass, Interface, Trait, Enum}

// EmptyKinds are tokens without semantic content.
var EmptyKinds = []Kind{Whitespace, Comment, DocComment}

var methodModifiers = []Kind{Public, Protected, Private, Static, Final, Abstract, Readonly, Var, Attribute}
