package introspection

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/vektah/gqlparser/v2"
	"github.com/vektah/gqlparser/v2/ast"
	"github.com/vektah/gqlparser/v2/formatter"
)

var builtInScalars = map[string]bool{
	"Int":     true,
	"Float":   true,
	"String":  true,
	"Boolean": true,
	"ID":      true,
}

var builtInDirectives = map[string]bool{
	"skip":        true,
	"include":     true,
	"deprecated":  true,
	"specifiedBy": true,
}

// Schema builds a schema object from an introspection result. Built-in
// scalars, introspection meta types and built-in directives are dropped; the
// validator's prelude supplies them again.
func Schema(res *Result) (*ast.Schema, error) {
	if res == nil {
		return nil, fmt.Errorf("introspection: nil result")
	}

	doc := &ast.SchemaDocument{}

	var operationTypes ast.OperationTypeDefinitionList
	if t := res.Schema.QueryType; t != nil && t.Name != "" {
		operationTypes = append(operationTypes, &ast.OperationTypeDefinition{
			Operation: ast.Query,
			Type:      t.Name,
		})
	}
	if t := res.Schema.MutationType; t != nil && t.Name != "" {
		operationTypes = append(operationTypes, &ast.OperationTypeDefinition{
			Operation: ast.Mutation,
			Type:      t.Name,
		})
	}
	if t := res.Schema.SubscriptionType; t != nil && t.Name != "" {
		operationTypes = append(operationTypes, &ast.OperationTypeDefinition{
			Operation: ast.Subscription,
			Type:      t.Name,
		})
	}
	if len(operationTypes) > 0 {
		doc.Schema = append(doc.Schema, &ast.SchemaDefinition{
			OperationTypes: operationTypes,
		})
	}

	for _, typ := range res.Schema.Types {
		if typ == nil || strings.HasPrefix(typ.Name, "__") || builtInScalars[typ.Name] {
			continue
		}
		def, err := typeDefinition(typ)
		if err != nil {
			return nil, err
		}
		doc.Definitions = append(doc.Definitions, def)
	}

	for _, directive := range res.Schema.Directives {
		if directive == nil || builtInDirectives[directive.Name] {
			continue
		}
		args, err := argumentDefinitions(directive.Args)
		if err != nil {
			return nil, err
		}
		locations := make([]ast.DirectiveLocation, 0, len(directive.Locations))
		for _, loc := range directive.Locations {
			locations = append(locations, ast.DirectiveLocation(loc))
		}
		doc.Directives = append(doc.Directives, &ast.DirectiveDefinition{
			Name:        directive.Name,
			Description: directive.Description,
			Arguments:   args,
			Locations:   locations,
		})
	}

	var buf bytes.Buffer
	formatter.NewFormatter(&buf).FormatSchemaDocument(doc)

	schema, err := gqlparser.LoadSchema(&ast.Source{
		Name:  "introspection",
		Input: buf.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("introspection: %w", err)
	}
	return schema, nil
}

func typeDefinition(typ *FullType) (*ast.Definition, error) {
	def := &ast.Definition{
		Name:        typ.Name,
		Description: typ.Description,
	}

	switch typ.Kind {
	case TypeKindScalar:
		def.Kind = ast.Scalar
	case TypeKindObject:
		def.Kind = ast.Object
	case TypeKindInterface:
		def.Kind = ast.Interface
	case TypeKindUnion:
		def.Kind = ast.Union
	case TypeKindEnum:
		def.Kind = ast.Enum
	case TypeKindInputObject:
		def.Kind = ast.InputObject
	default:
		return nil, fmt.Errorf("introspection: unexpected kind %q for type %q", typ.Kind, typ.Name)
	}

	for _, iface := range typ.Interfaces {
		if iface != nil {
			def.Interfaces = append(def.Interfaces, iface.Name)
		}
	}
	if typ.Kind == TypeKindUnion {
		for _, possible := range typ.PossibleTypes {
			if possible != nil {
				def.Types = append(def.Types, possible.Name)
			}
		}
	}

	for _, field := range typ.Fields {
		args, err := argumentDefinitions(field.Args)
		if err != nil {
			return nil, err
		}
		fieldType, err := astType(field.Type)
		if err != nil {
			return nil, fmt.Errorf("field %s.%s: %w", typ.Name, field.Name, err)
		}
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name:        field.Name,
			Description: field.Description,
			Arguments:   args,
			Type:        fieldType,
			Directives:  deprecationDirectives(field.IsDeprecated, field.DeprecationReason),
		})
	}

	for _, input := range typ.InputFields {
		inputType, err := astType(input.Type)
		if err != nil {
			return nil, fmt.Errorf("input field %s.%s: %w", typ.Name, input.Name, err)
		}
		def.Fields = append(def.Fields, &ast.FieldDefinition{
			Name:         input.Name,
			Description:  input.Description,
			Type:         inputType,
			DefaultValue: astValue(input.DefaultValue),
		})
	}

	for _, value := range typ.EnumValues {
		def.EnumValues = append(def.EnumValues, &ast.EnumValueDefinition{
			Name:        value.Name,
			Description: value.Description,
			Directives:  deprecationDirectives(value.IsDeprecated, value.DeprecationReason),
		})
	}

	return def, nil
}

func argumentDefinitions(args []*InputValue) (ast.ArgumentDefinitionList, error) {
	var out ast.ArgumentDefinitionList
	for _, arg := range args {
		argType, err := astType(arg.Type)
		if err != nil {
			return nil, fmt.Errorf("argument %s: %w", arg.Name, err)
		}
		out = append(out, &ast.ArgumentDefinition{
			Name:         arg.Name,
			Description:  arg.Description,
			Type:         argType,
			DefaultValue: astValue(arg.DefaultValue),
		})
	}
	return out, nil
}

func astType(ref *TypeRef) (*ast.Type, error) {
	if ref == nil {
		return nil, fmt.Errorf("missing type reference")
	}
	switch ref.Kind {
	case TypeKindNonNull:
		inner, err := astType(ref.OfType)
		if err != nil {
			return nil, err
		}
		inner.NonNull = true
		return inner, nil
	case TypeKindList:
		inner, err := astType(ref.OfType)
		if err != nil {
			return nil, err
		}
		return ast.ListType(inner, nil), nil
	default:
		if ref.Name == "" {
			return nil, fmt.Errorf("unnamed type reference of kind %q", ref.Kind)
		}
		return ast.NamedType(ref.Name, nil), nil
	}
}

// astValue reconstructs a default value from its printed form. Composite
// literals (lists, input objects) are dropped rather than misparsed; the
// schema stays valid without them.
func astValue(raw *string) *ast.Value {
	if raw == nil {
		return nil
	}
	s := *raw
	switch {
	case s == "null":
		return &ast.Value{Raw: s, Kind: ast.NullValue}
	case s == "true" || s == "false":
		return &ast.Value{Raw: s, Kind: ast.BooleanValue}
	case strings.HasPrefix(s, `"`):
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return nil
		}
		return &ast.Value{Raw: unquoted, Kind: ast.StringValue}
	case strings.HasPrefix(s, "[") || strings.HasPrefix(s, "{"):
		return nil
	default:
		if _, err := strconv.ParseInt(s, 10, 64); err == nil {
			return &ast.Value{Raw: s, Kind: ast.IntValue}
		}
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return &ast.Value{Raw: s, Kind: ast.FloatValue}
		}
		return &ast.Value{Raw: s, Kind: ast.EnumValue}
	}
}

func deprecationDirectives(deprecated bool, reason string) ast.DirectiveList {
	if !deprecated {
		return nil
	}
	directive := &ast.Directive{Name: "deprecated"}
	if reason != "" {
		directive.Arguments = ast.ArgumentList{{
			Name:  "reason",
			Value: &ast.Value{Raw: reason, Kind: ast.StringValue},
		}}
	}
	return ast.DirectiveList{directive}
}
