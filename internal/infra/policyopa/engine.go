package policyopa

import (
	"context"
	"encoding/json"
	"errors"

	"walletlink/internal/domain"
	"walletlink/internal/usecase"

	"github.com/open-policy-agent/opa/ast"
	"github.com/open-policy-agent/opa/rego"
)

const defaultQuery = "data.walletlink.grants.result"

// defaultModule encodes the conservative compatibility rule between a stored
// account grant and a newly requested shape: the stored grant must have
// satisfied an equal-or-stricter requirement. Product can override it with a
// bundle path in config without touching the engine.
const defaultModule = `package walletlink.grants

default allow = false

# The grant was made under exactly the shape now requested.
allow {
	input.stored.quantifier == input.requested.quantifier
	input.stored.quantity == input.requested.quantity
}

# "At least n" is covered by any grant whose stored requirement was at least
# as large.
allow {
	input.requested.quantifier == "atLeast"
	input.stored.quantity >= input.requested.quantity
}

# "Exactly n" is covered when the stored set already holds n or more
# addresses.
allow {
	input.requested.quantifier == "exactly"
	input.stored.count >= input.requested.quantity
}

result = {"allow": allow}
`

type grantInput struct {
	Stored    shapeInput `json:"stored"`
	Requested shapeInput `json:"requested"`
}

type shapeInput struct {
	Quantifier string `json:"quantifier"`
	Quantity   int    `json:"quantity"`
	Count      int    `json:"count,omitempty"`
}

type grantResult struct {
	Allow bool `json:"allow"`
}

type Engine struct {
	query rego.PreparedEvalQuery
}

// NewEngine prepares the built-in compatibility policy.
func NewEngine(ctx context.Context) (*Engine, error) {
	return newEngine(ctx, rego.Module("grants.rego", defaultModule))
}

// NewEngineFromBundlePath prepares a policy loaded from disk, for deployments
// that override the compatibility rule.
func NewEngineFromBundlePath(ctx context.Context, bundlePath string) (*Engine, error) {
	return newEngine(ctx, rego.Load([]string{bundlePath}, nil))
}

func newEngine(ctx context.Context, source func(*rego.Rego)) (*Engine, error) {
	capabilities := ast.CapabilitiesForThisVersion()
	capabilities.Builtins = filterBuiltins(capabilities.Builtins)
	compiler := ast.NewCompiler().WithCapabilities(capabilities)

	r := rego.New(
		rego.Query(defaultQuery),
		rego.Compiler(compiler),
		rego.StrictBuiltinErrors(true),
		source,
	)
	prepared, err := r.PrepareForEval(ctx)
	if err != nil {
		return nil, err
	}
	if err := assertNoForbiddenBuiltins(compiler); err != nil {
		return nil, err
	}
	return &Engine{query: prepared}, nil
}

func (e *Engine) Allows(
	ctx context.Context,
	stored domain.NumberOfValues,
	storedCount int,
	requested domain.NumberOfValues,
) (bool, error) {
	if e == nil {
		return false, errors.New("grant policy engine is nil")
	}
	input := grantInput{
		Stored: shapeInput{
			Quantifier: string(stored.Quantifier),
			Quantity:   stored.Quantity,
			Count:      storedCount,
		},
		Requested: shapeInput{
			Quantifier: string(requested.Quantifier),
			Quantity:   requested.Quantity,
		},
	}
	results, err := e.query.Eval(ctx, rego.EvalInput(input))
	if err != nil {
		return false, err
	}
	if len(results) == 0 || len(results[0].Expressions) == 0 {
		return false, errors.New("empty grant policy result")
	}
	result, err := decodeGrantResult(results[0].Expressions[0].Value)
	if err != nil {
		return false, err
	}
	return result.Allow, nil
}

func decodeGrantResult(value any) (grantResult, error) {
	payload, err := json.Marshal(value)
	if err != nil {
		return grantResult{}, err
	}
	var result grantResult
	if err := json.Unmarshal(payload, &result); err != nil {
		return grantResult{}, err
	}
	return result, nil
}

var _ usecase.GrantPolicy = (*Engine)(nil)
