package stat

import "fmt"

// Operation is one of the eleven arithmetic instructions a modifier can
// carry against a single stat field.
type Operation int

const (
	// OpSet replaces the field with the operand.
	OpSet Operation = iota
	// OpAdd adds the operand to the field.
	OpAdd
	// OpSubtract subtracts the operand from the field.
	OpSubtract
	// OpMultiply multiplies the field by the operand.
	OpMultiply
	// OpDivide divides the field by the operand; a zero operand leaves the
	// field unchanged (saturation, not an error).
	OpDivide
	// OpAddPercent adds operand*Base to the field.
	OpAddPercent
	// OpSubtractPercent subtracts operand*Base from the field.
	OpSubtractPercent
	// OpAddPercentOfCurrent adds operand*current to the field.
	OpAddPercentOfCurrent
	// OpSubtractPercentOfCurrent subtracts operand*current from the field.
	OpSubtractPercentOfCurrent
	// OpMin lowers the field to the operand if the operand is smaller.
	OpMin
	// OpMax raises the field to the operand if the operand is larger.
	OpMax
)

// String returns the snake_case name used in rule files and logs.
func (op Operation) String() string {
	switch op {
	case OpSet:
		return "set"
	case OpAdd:
		return "add"
	case OpSubtract:
		return "subtract"
	case OpMultiply:
		return "multiply"
	case OpDivide:
		return "divide"
	case OpAddPercent:
		return "add_percent"
	case OpSubtractPercent:
		return "subtract_percent"
	case OpAddPercentOfCurrent:
		return "add_percent_of_current"
	case OpSubtractPercentOfCurrent:
		return "subtract_percent_of_current"
	case OpMin:
		return "min"
	case OpMax:
		return "max"
	default:
		return fmt.Sprintf("operation(%d)", int(op))
	}
}

// ParseOperation maps the snake_case name used in rule files to an Operation.
//
// Postcondition: Returns a valid Operation or a non-nil error.
func ParseOperation(name string) (Operation, error) {
	switch name {
	case "set":
		return OpSet, nil
	case "add":
		return OpAdd, nil
	case "subtract":
		return OpSubtract, nil
	case "multiply":
		return OpMultiply, nil
	case "divide":
		return OpDivide, nil
	case "add_percent":
		return OpAddPercent, nil
	case "subtract_percent":
		return OpSubtractPercent, nil
	case "add_percent_of_current":
		return OpAddPercentOfCurrent, nil
	case "subtract_percent_of_current":
		return OpSubtractPercentOfCurrent, nil
	case "min":
		return OpMin, nil
	case "max":
		return OpMax, nil
	default:
		return 0, fmt.Errorf("unknown stat operation %q", name)
	}
}

// Apply computes the new field value from the current one and the operand.
// base is the owning stat's Base and is consulted only by OpAddPercent and
// OpSubtractPercent. An unrecognized operation leaves current unchanged.
func (op Operation) Apply(current, operand, base float64) float64 {
	switch op {
	case OpSet:
		return operand
	case OpAdd:
		return current + operand
	case OpSubtract:
		return current - operand
	case OpMultiply:
		return current * operand
	case OpDivide:
		if operand == 0 {
			return current
		}
		return current / operand
	case OpAddPercent:
		return current + base*operand
	case OpSubtractPercent:
		return current - base*operand
	case OpAddPercentOfCurrent:
		return current + current*operand
	case OpSubtractPercentOfCurrent:
		return current - current*operand
	case OpMin:
		if operand < current {
			return operand
		}
		return current
	case OpMax:
		if operand > current {
			return operand
		}
		return current
	default:
		return current
	}
}

// Inverse returns the operation that undoes op when applied with the same
// operand. OpSet, OpMin and OpMax destroy information and have no inverse;
// for those ok is false and removal must fail explicitly rather than no-op.
func (op Operation) Inverse() (inv Operation, ok bool) {
	switch op {
	case OpAdd:
		return OpSubtract, true
	case OpSubtract:
		return OpAdd, true
	case OpMultiply:
		return OpDivide, true
	case OpDivide:
		return OpMultiply, true
	case OpAddPercent:
		return OpSubtractPercent, true
	case OpSubtractPercent:
		return OpAddPercent, true
	case OpAddPercentOfCurrent:
		return OpSubtractPercentOfCurrent, true
	case OpSubtractPercentOfCurrent:
		return OpAddPercentOfCurrent, true
	default:
		return 0, false
	}
}
