package checker

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/cuemby/warren-jepsen/pkg/history"
	"github.com/cuemby/warren-jepsen/pkg/kvdb"
	"github.com/cuemby/warren-jepsen/pkg/orchestrator"
)

const defaultExpression = "value in written"

// RegisterChecker replays a History produced against pkg/kvdb and
// evaluates a compiled CEL predicate against every completed read's
// returned value and the set of values confirmed written to that key so
// far. It is a reference Checker; production tests plug in their own
// consistency checker.
type RegisterChecker struct {
	expression string
	program    cel.Program
}

var _ orchestrator.Checker = (*RegisterChecker)(nil)

// NewRegisterChecker compiles expression (or the default "value in
// written") against a "value" (dyn) and "written" (list(dyn)) variable
// pair.
func NewRegisterChecker(expression string) (*RegisterChecker, error) {
	if expression == "" {
		expression = defaultExpression
	}

	env, err := cel.NewEnv(
		cel.Variable("value", cel.DynType),
		cel.Variable("written", cel.ListType(cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("creating CEL environment: %w", err)
	}

	ast, issues := env.Compile(expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compiling CEL expression %q: %w", expression, issues.Err())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("building CEL program for %q: %w", expression, err)
	}

	return &RegisterChecker{expression: expression, program: program}, nil
}

// Check walks h in append order, tracking the values ever confirmed
// written to each key, and evaluates the compiled predicate against
// every completed read. A key that has never been written is skipped;
// this checker is deliberately weak and cannot verify the initial,
// never-written state of a register.
func (c *RegisterChecker) Check(_ context.Context, _ *orchestrator.Config, _ any, h *history.History) (orchestrator.Result, error) {
	written := make(map[string][]any)
	violations := 0
	var firstViolation string

	for _, op := range h.Ops() {
		if op.Type == history.Invoke {
			continue
		}
		reg, ok := op.Value.(kvdb.RegisterOp)
		if !ok {
			continue
		}

		switch reg.Kind {
		case kvdb.KindWrite, kvdb.KindCAS:
			if op.Type == history.Ok {
				written[reg.Key] = append(written[reg.Key], reg.Value)
			}
		case kvdb.KindRead:
			if op.Type != history.Ok {
				continue
			}
			prior := written[reg.Key]
			if len(prior) == 0 {
				continue
			}
			ok, err := c.evaluate(reg.Value, prior)
			if err != nil {
				return orchestrator.Result{}, fmt.Errorf("evaluating checker predicate: %w", err)
			}
			if !ok {
				violations++
				if firstViolation == "" {
					firstViolation = fmt.Sprintf("process %d read %d for key %q, never written", op.Process, reg.Value, reg.Key)
				}
			}
		}
	}

	if violations > 0 {
		return orchestrator.Result{
			Valid: false,
			Error: firstViolation,
			Extra: map[string]any{"violations": violations, "expression": c.expression},
		}, nil
	}
	return orchestrator.Result{Valid: true, Extra: map[string]any{"expression": c.expression}}, nil
}

func (c *RegisterChecker) evaluate(value int, written []any) (bool, error) {
	out, _, err := c.program.Eval(map[string]any{"value": value, "written": written})
	if err != nil {
		return false, err
	}
	ok, isBool := out.Value().(bool)
	if !isBool {
		return false, fmt.Errorf("predicate %q did not evaluate to a bool", c.expression)
	}
	return ok, nil
}
