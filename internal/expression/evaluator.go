package expression

import (
	"fmt"
	"strconv"
	"strings"
)

// Evaluator evaluates condition expressions against a flat variable
// namespace. The namespace is the input payload of the condition node;
// nothing outside of it is reachable from an expression.
type Evaluator interface {
	// Parse parses an expression string into an AST.
	Parse(expr string) (*ExpressionAST, error)

	// Evaluate evaluates an AST against the given payload.
	Evaluate(ast *ExpressionAST, payload map[string]any) (bool, error)

	// EvaluateString parses and evaluates an expression string.
	EvaluateString(expr string, payload map[string]any) (bool, error)
}

// DefaultEvaluator is the default implementation of Evaluator.
type DefaultEvaluator struct{}

// NewEvaluator creates a new DefaultEvaluator.
func NewEvaluator() *DefaultEvaluator {
	return &DefaultEvaluator{}
}

// Parse parses an expression string into an AST.
func (e *DefaultEvaluator) Parse(expr string) (*ExpressionAST, error) {
	return ParseExpression(expr)
}

// Evaluate evaluates an AST against the given payload.
func (e *DefaultEvaluator) Evaluate(ast *ExpressionAST, payload map[string]any) (bool, error) {
	if ast == nil || ast.Root == nil {
		return false, NewEvaluationError("nil AST", nil)
	}

	result, err := e.evaluateNode(ast.Root, payload)
	if err != nil {
		return false, err
	}

	return toBool(result)
}

// EvaluateString parses and evaluates an expression string.
func (e *DefaultEvaluator) EvaluateString(expr string, payload map[string]any) (bool, error) {
	ast, err := e.Parse(expr)
	if err != nil {
		return false, err
	}
	return e.Evaluate(ast, payload)
}

// evaluateNode evaluates a single AST node.
func (e *DefaultEvaluator) evaluateNode(node Node, payload map[string]any) (any, error) {
	switch n := node.(type) {
	case *LiteralNode:
		return n.Value, nil

	case *VariableNode:
		return resolveVariable(n.Name, payload)

	case *ComparisonNode:
		return e.evaluateComparison(n, payload)

	case *LogicalNode:
		return e.evaluateLogical(n, payload)

	case *NotNode:
		return e.evaluateNot(n, payload)

	case *ArithmeticNode:
		return e.evaluateArithmetic(n, payload)

	case *NegateNode:
		return e.evaluateNegate(n, payload)

	default:
		return nil, NewEvaluationError(fmt.Sprintf("unknown node type: %T", node), nil)
	}
}

// resolveVariable resolves a variable reference against the payload.
// Dotted names navigate nested maps (e.g. "stats.words").
func resolveVariable(name string, payload map[string]any) (any, error) {
	if payload == nil {
		return nil, NewVariableNotFoundError(name)
	}

	if !strings.Contains(name, ".") {
		if val, ok := payload[name]; ok {
			return val, nil
		}
		return nil, NewVariableNotFoundError(name)
	}

	parts := strings.Split(name, ".")
	current, ok := payload[parts[0]]
	if !ok {
		return nil, NewVariableNotFoundError(name)
	}

	for _, part := range parts[1:] {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, NewEvaluationError(fmt.Sprintf("cannot resolve path '%s': '%s' is not a map", name, part), nil)
		}
		if current, ok = m[part]; !ok {
			return nil, NewVariableNotFoundError(name)
		}
	}

	return current, nil
}

// evaluateComparison evaluates a comparison expression.
func (e *DefaultEvaluator) evaluateComparison(node *ComparisonNode, payload map[string]any) (bool, error) {
	left, err := e.evaluateNode(node.Left, payload)
	if err != nil {
		return false, err
	}

	right, err := e.evaluateNode(node.Right, payload)
	if err != nil {
		return false, err
	}

	return compare(left, right, node.Operator)
}

// evaluateLogical evaluates a logical expression (AND, OR).
func (e *DefaultEvaluator) evaluateLogical(node *LogicalNode, payload map[string]any) (bool, error) {
	leftVal, err := e.evaluateNode(node.Left, payload)
	if err != nil {
		return false, err
	}

	leftBool, err := toBool(leftVal)
	if err != nil {
		return false, err
	}

	// Short-circuit evaluation
	switch node.Operator {
	case "AND":
		if !leftBool {
			return false, nil
		}
	case "OR":
		if leftBool {
			return true, nil
		}
	}

	rightVal, err := e.evaluateNode(node.Right, payload)
	if err != nil {
		return false, err
	}

	rightBool, err := toBool(rightVal)
	if err != nil {
		return false, err
	}

	switch node.Operator {
	case "AND":
		return leftBool && rightBool, nil
	case "OR":
		return leftBool || rightBool, nil
	default:
		return false, NewEvaluationError(fmt.Sprintf("unknown logical operator: %s", node.Operator), nil)
	}
}

// evaluateNot evaluates a NOT expression.
func (e *DefaultEvaluator) evaluateNot(node *NotNode, payload map[string]any) (bool, error) {
	val, err := e.evaluateNode(node.Operand, payload)
	if err != nil {
		return false, err
	}

	boolVal, err := toBool(val)
	if err != nil {
		return false, err
	}

	return !boolVal, nil
}

// evaluateArithmetic evaluates an arithmetic expression. Two integer
// operands stay integral except for division, which is always carried out
// in floating point. "+" on two strings concatenates.
func (e *DefaultEvaluator) evaluateArithmetic(node *ArithmeticNode, payload map[string]any) (any, error) {
	left, err := e.evaluateNode(node.Left, payload)
	if err != nil {
		return nil, err
	}

	right, err := e.evaluateNode(node.Right, payload)
	if err != nil {
		return nil, err
	}

	if node.Operator == "+" {
		ls, lok := left.(string)
		rs, rok := right.(string)
		if lok && rok {
			return ls + rs, nil
		}
	}

	leftInt, leftIsInt := toInt64(left)
	rightInt, rightIsInt := toInt64(right)
	if leftIsInt && rightIsInt && node.Operator != "/" {
		switch node.Operator {
		case "+":
			return leftInt + rightInt, nil
		case "-":
			return leftInt - rightInt, nil
		case "*":
			return leftInt * rightInt, nil
		}
	}

	leftNum, leftIsNum := toFloat64(left)
	rightNum, rightIsNum := toFloat64(right)
	if !leftIsNum {
		return nil, NewTypeMismatchError("number", fmt.Sprintf("%T", left), left)
	}
	if !rightIsNum {
		return nil, NewTypeMismatchError("number", fmt.Sprintf("%T", right), right)
	}

	switch node.Operator {
	case "+":
		return leftNum + rightNum, nil
	case "-":
		return leftNum - rightNum, nil
	case "*":
		return leftNum * rightNum, nil
	case "/":
		if rightNum == 0 {
			return nil, NewEvaluationError("division by zero", nil)
		}
		return leftNum / rightNum, nil
	default:
		return nil, NewEvaluationError(fmt.Sprintf("unknown arithmetic operator: %s", node.Operator), nil)
	}
}

// evaluateNegate evaluates a unary minus.
func (e *DefaultEvaluator) evaluateNegate(node *NegateNode, payload map[string]any) (any, error) {
	val, err := e.evaluateNode(node.Operand, payload)
	if err != nil {
		return nil, err
	}

	if i, ok := toInt64(val); ok {
		return -i, nil
	}
	if f, ok := toFloat64(val); ok {
		return -f, nil
	}
	return nil, NewTypeMismatchError("number", fmt.Sprintf("%T", val), val)
}

// compare compares two values with the given operator.
func compare(left, right any, op string) (bool, error) {
	// Handle nil comparisons
	if left == nil || right == nil {
		switch op {
		case "==":
			return left == right, nil
		case "!=":
			return left != right, nil
		default:
			return false, NewEvaluationError(fmt.Sprintf("cannot compare nil with operator %s", op), nil)
		}
	}

	// Try numeric comparison first
	leftNum, leftIsNum := toFloat64(left)
	rightNum, rightIsNum := toFloat64(right)

	if leftIsNum && rightIsNum {
		return compareNumbers(leftNum, rightNum, op)
	}

	// String comparison
	leftStr := fmt.Sprintf("%v", left)
	rightStr := fmt.Sprintf("%v", right)

	switch op {
	case "==":
		return leftStr == rightStr, nil
	case "!=":
		return leftStr != rightStr, nil
	case "<":
		return leftStr < rightStr, nil
	case ">":
		return leftStr > rightStr, nil
	case "<=":
		return leftStr <= rightStr, nil
	case ">=":
		return leftStr >= rightStr, nil
	default:
		return false, NewEvaluationError(fmt.Sprintf("unknown comparison operator: %s", op), nil)
	}
}

// compareNumbers compares two numbers.
func compareNumbers(left, right float64, op string) (bool, error) {
	switch op {
	case "==":
		return left == right, nil
	case "!=":
		return left != right, nil
	case "<":
		return left < right, nil
	case ">":
		return left > right, nil
	case "<=":
		return left <= right, nil
	case ">=":
		return left >= right, nil
	default:
		return false, NewEvaluationError(fmt.Sprintf("unknown comparison operator: %s", op), nil)
	}
}

// toInt64 converts a value to int64 if it is integral.
func toInt64(v any) (int64, bool) {
	switch val := v.(type) {
	case int:
		return int64(val), true
	case int8:
		return int64(val), true
	case int16:
		return int64(val), true
	case int32:
		return int64(val), true
	case int64:
		return val, true
	case uint:
		return int64(val), true
	case uint8:
		return int64(val), true
	case uint16:
		return int64(val), true
	case uint32:
		return int64(val), true
	case uint64:
		return int64(val), true
	default:
		return 0, false
	}
}

// toFloat64 converts a value to float64 if possible.
func toFloat64(v any) (float64, bool) {
	switch val := v.(type) {
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	case float32:
		return float64(val), true
	case float64:
		return val, true
	case string:
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f, true
		}
		return 0, false
	default:
		return 0, false
	}
}

// toBool converts a value to bool.
func toBool(v any) (bool, error) {
	switch val := v.(type) {
	case bool:
		return val, nil
	case int, int8, int16, int32, int64:
		i, _ := toInt64(val)
		return i != 0, nil
	case uint, uint8, uint16, uint32, uint64:
		i, _ := toInt64(val)
		return i != 0, nil
	case float32:
		return val != 0, nil
	case float64:
		return val != 0, nil
	case string:
		lower := strings.ToLower(val)
		if lower == "true" || lower == "1" {
			return true, nil
		}
		if lower == "false" || lower == "0" || lower == "" {
			return false, nil
		}
		return false, NewTypeMismatchError("bool", "string", val)
	case nil:
		return false, nil
	default:
		return false, NewTypeMismatchError("bool", fmt.Sprintf("%T", v), v)
	}
}

// Evaluate is a convenience function to evaluate an expression string.
func Evaluate(expr string, payload map[string]any) (bool, error) {
	evaluator := NewEvaluator()
	return evaluator.EvaluateString(expr, payload)
}
