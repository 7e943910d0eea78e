package commands

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/weavercmd/weaver/internal/engine"
	"github.com/weavercmd/weaver/internal/vars"
)

// SetValueCommand evaluates an expression and stores the result under a key.
// The declared type drives evaluation: string stores the raw trimmed text,
// int rounds the numeric result to a 64-bit integer.
type SetValueCommand struct {
	Vars *vars.Registry
	Eval *vars.Evaluator
}

func (c *SetValueCommand) Name() string        { return "setvalue" }
func (c *SetValueCommand) Namespace() string   { return "" }
func (c *SetValueCommand) Description() string { return "Store a typed value: setvalue(key, expression, type)" }
func (c *SetValueCommand) ParameterCount() int { return 3 }

func (c *SetValueCommand) Execute(args []string) engine.CommandResult {
	key, expr := args[0], args[1]
	t, err := vars.ParseType(args[2])
	if err != nil {
		return engine.Failf("Evaluation error: %v", err)
	}
	switch t {
	case vars.Wstring:
		c.Vars.Set(key, strings.TrimSpace(expr), vars.Wstring)
		return engine.Okf("%s = %s : %s", key, strings.TrimSpace(expr), vars.Wstring)
	case vars.Wint:
		n, err := c.Eval.Numeric(expr)
		if err != nil {
			return engine.Failf("Evaluation error: %v", err)
		}
		v := int64(math.Round(n))
		c.Vars.Set(key, v, vars.Wint)
		return engine.Okf("%s = %d : %s", key, v, vars.Wint)
	case vars.Wdouble:
		n, err := c.Eval.Numeric(expr)
		if err != nil {
			return engine.Failf("Evaluation error: %v", err)
		}
		c.Vars.Set(key, n, vars.Wdouble)
		return engine.Okf("%s = %v : %s", key, n, vars.Wdouble)
	default: // vars.Wbool
		b, err := c.Eval.Bool(expr)
		if err != nil {
			return engine.Failf("Evaluation error: %v", err)
		}
		c.Vars.Set(key, b, vars.Wbool)
		return engine.Okf("%s = %v : %s", key, b, vars.Wbool)
	}
}

// GetValueCommand returns a stored value and its type.
type GetValueCommand struct {
	Vars *vars.Registry
}

func (c *GetValueCommand) Name() string        { return "getvalue" }
func (c *GetValueCommand) Namespace() string   { return "" }
func (c *GetValueCommand) Description() string { return "Read a stored value: getvalue(key)" }
func (c *GetValueCommand) ParameterCount() int { return 1 }

func (c *GetValueCommand) Execute(args []string) engine.CommandResult {
	v, t, ok := c.Vars.TryGet(args[0])
	if !ok {
		return engine.Failf("Unknown variable '%s'", args[0])
	}
	return engine.OkValue(
		args[0]+" = "+valueText(v)+" : "+t.String(),
		v, t)
}

// DelValueCommand removes a key from the registry.
type DelValueCommand struct {
	Vars *vars.Registry
}

func (c *DelValueCommand) Name() string        { return "delvalue" }
func (c *DelValueCommand) Namespace() string   { return "" }
func (c *DelValueCommand) Description() string { return "Remove a stored value: delvalue(key)" }
func (c *DelValueCommand) ParameterCount() int { return 1 }

func (c *DelValueCommand) Execute(args []string) engine.CommandResult {
	if !c.Vars.Remove(args[0]) {
		return engine.Failf("Unknown variable '%s'", args[0])
	}
	return engine.Okf("'%s' removed", args[0])
}

// ValuesCommand enumerates the registry in insertion order.
type ValuesCommand struct {
	Vars *vars.Registry
}

func (c *ValuesCommand) Name() string        { return "values" }
func (c *ValuesCommand) Namespace() string   { return "" }
func (c *ValuesCommand) Description() string { return "List stored values" }
func (c *ValuesCommand) ParameterCount() int { return 0 }

func (c *ValuesCommand) Execute([]string) engine.CommandResult {
	if c.Vars.Len() == 0 {
		return engine.Ok("No values stored")
	}
	return engine.Ok(c.Vars.String())
}

// ClearValuesCommand empties the registry.
type ClearValuesCommand struct {
	Vars *vars.Registry
}

func (c *ClearValuesCommand) Name() string        { return "clearvalues" }
func (c *ClearValuesCommand) Namespace() string   { return "" }
func (c *ClearValuesCommand) Description() string { return "Remove all stored values" }
func (c *ClearValuesCommand) ParameterCount() int { return 0 }

func (c *ClearValuesCommand) Execute([]string) engine.CommandResult {
	c.Vars.Clear()
	return engine.Ok("All values cleared")
}

// EvaluateCommand runs the numeric evaluator over an expression.
type EvaluateCommand struct {
	Eval *vars.Evaluator
}

func (c *EvaluateCommand) Name() string        { return "evaluate" }
func (c *EvaluateCommand) Namespace() string   { return "" }
func (c *EvaluateCommand) Description() string { return "Evaluate a numeric expression: evaluate(expression)" }
func (c *EvaluateCommand) ParameterCount() int { return 1 }

func (c *EvaluateCommand) Execute(args []string) engine.CommandResult {
	n, err := c.Eval.Numeric(args[0])
	if err != nil {
		return engine.Failf("Evaluation error: %v", err)
	}
	return engine.OkValue(valueText(n), n, vars.Wdouble)
}

func valueText(v interface{}) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case int64:
		return strconv.FormatInt(x, 10)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
