package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/function"
)

// ParseHCL parses an HCL mapping table with the given variables.
//
//	integration "github" {
//	  command = "npx"
//	  args    = ["-y", "@modelcontextprotocol/server-github"]
//
//	  env "GITHUB_PERSONAL_ACCESS_TOKEN" {
//	    from = ["GITHUB_TOKEN", "GITHUB_PERSONAL_ACCESS_TOKEN"]
//	  }
//	}
func ParseHCL(data []byte, filename string, vars Variables) (*Table, error) {
	file, diags := hclsyntax.ParseConfig(data, filename, hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing HCL: %s", diags.Error())
	}

	evalCtx := buildEvalContext(vars)

	content, diags := file.Body.Content(rootSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("parsing mapping structure: %s", diags.Error())
	}

	table := &Table{
		Integrations: make(map[string]Integration),
	}

	for _, block := range content.Blocks {
		name := block.Labels[0]
		if _, exists := table.Integrations[name]; exists {
			return nil, fmt.Errorf("integration %q defined more than once", name)
		}

		integration, err := parseIntegrationBlock(block, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("parsing integration %q: %w", name, err)
		}
		table.Integrations[name] = *integration
	}

	applyDefaults(table)

	if err := validate(table); err != nil {
		return nil, fmt.Errorf("validating mapping: %w", err)
	}

	return table, nil
}

// rootSchema defines the top-level HCL structure
var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "integration", LabelNames: []string{"name"}},
	},
}

var integrationSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "command", Required: true},
		{Name: "args"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "env", LabelNames: []string{"key"}},
	},
}

var envSchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "from"},
		{Name: "default"},
		{Name: "required"},
	},
}

// buildEvalContext creates the HCL evaluation context with custom functions
func buildEvalContext(vars Variables) *hcl.EvalContext {
	return &hcl.EvalContext{
		Functions: map[string]function.Function{
			"env": makeEnvFunction(vars),
		},
	}
}

// makeEnvFunction creates the env() function for variable lookup
func makeEnvFunction(vars Variables) function.Function {
	return function.New(&function.Spec{
		Params: []function.Parameter{
			{Name: "name", Type: cty.String},
		},
		Type: function.StaticReturnType(cty.String),
		Impl: func(args []cty.Value, retType cty.Type) (cty.Value, error) {
			name := args[0].AsString()
			// CLI vars take priority over env vars
			if val, ok := vars[name]; ok {
				return cty.StringVal(val), nil
			}
			if val := os.Getenv(name); val != "" {
				return cty.StringVal(val), nil
			}
			return cty.NullVal(cty.String), fmt.Errorf("variable %q is not set", name)
		},
	})
}

// parseIntegrationBlock parses one integration block
func parseIntegrationBlock(block *hcl.Block, evalCtx *hcl.EvalContext) (*Integration, error) {
	integration := &Integration{
		Env: make(map[string]Binding),
	}

	content, diags := block.Body.Content(integrationSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s", diags.Error())
	}

	command, err := evalString(content.Attributes["command"], evalCtx)
	if err != nil {
		return nil, fmt.Errorf("evaluating command: %w", err)
	}
	integration.Command = command

	if attr, exists := content.Attributes["args"]; exists {
		args, err := evalStringList(attr, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("evaluating args: %w", err)
		}
		integration.Args = args
	}

	for _, envBlock := range content.Blocks {
		key := envBlock.Labels[0]
		binding, err := parseEnvBlock(envBlock, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("parsing env %q: %w", key, err)
		}
		integration.Env[key] = *binding
	}

	return integration, nil
}

// parseEnvBlock parses an env binding block
func parseEnvBlock(block *hcl.Block, evalCtx *hcl.EvalContext) (*Binding, error) {
	binding := &Binding{}

	content, diags := block.Body.Content(envSchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s", diags.Error())
	}

	if attr, exists := content.Attributes["from"]; exists {
		from, err := evalStringList(attr, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("evaluating from: %w", err)
		}
		binding.From = from
	}

	if attr, exists := content.Attributes["default"]; exists {
		def, err := evalString(attr, evalCtx)
		if err != nil {
			return nil, fmt.Errorf("evaluating default: %w", err)
		}
		binding.Default = def
	}

	if attr, exists := content.Attributes["required"]; exists {
		val, diags := attr.Expr.Value(evalCtx)
		if diags.HasErrors() {
			return nil, fmt.Errorf("evaluating required: %s", diags.Error())
		}
		val, err := convert.Convert(val, cty.Bool)
		if err != nil || val.IsNull() {
			return nil, fmt.Errorf("required must be a bool")
		}
		binding.Required = val.True()
	}

	return binding, nil
}

func evalString(attr *hcl.Attribute, evalCtx *hcl.EvalContext) (string, error) {
	val, diags := attr.Expr.Value(evalCtx)
	if diags.HasErrors() {
		return "", fmt.Errorf("%s", diags.Error())
	}

	val, err := convert.Convert(val, cty.String)
	if err != nil {
		return "", fmt.Errorf("expected string: %w", err)
	}
	if val.IsNull() {
		return "", nil
	}
	return val.AsString(), nil
}

func evalStringList(attr *hcl.Attribute, evalCtx *hcl.EvalContext) ([]string, error) {
	val, diags := attr.Expr.Value(evalCtx)
	if diags.HasErrors() {
		return nil, fmt.Errorf("%s", diags.Error())
	}

	val, err := convert.Convert(val, cty.List(cty.String))
	if err != nil {
		return nil, fmt.Errorf("expected list of strings: %w", err)
	}
	if val.IsNull() {
		return nil, nil
	}

	out := make([]string, 0, val.LengthInt())
	for it := val.ElementIterator(); it.Next(); {
		_, elem := it.Element()
		if elem.IsNull() {
			return nil, fmt.Errorf("list contains null")
		}
		out = append(out, elem.AsString())
	}
	return out, nil
}
