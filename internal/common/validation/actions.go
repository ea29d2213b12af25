package validation

import "fmt"

// Operations carried by confirm actions.
const (
	OpCreateDiscount = "create_discount"
	OpUpdateDiscount = "update_discount"
	OpDeleteDiscount = "delete_discount"
	OpBulk           = "bulk"
)

const createDiscountSchema = `{
  "type": "object",
  "required": ["operation", "confirmed", "payload"],
  "properties": {
    "operation": {"const": "create_discount"},
    "confirmed": {"type": "boolean"},
    "payload": {
      "type": "object",
      "required": ["code"],
      "properties": {
        "code": {"type": "string", "pattern": "^[A-Z0-9][A-Z0-9_-]{1,31}$"},
        "type": {"type": "string", "enum": ["percentage", "fixed", "free_shipping"]},
        "value": {"type": "number", "minimum": 0},
        "usageLimit": {"type": "integer", "minimum": 0},
        "minOrderAmount": {"type": "number", "minimum": 0},
        "oneUserOnly": {"type": "boolean"}
      },
      "allOf": [
        {
          "if": {"properties": {"type": {"const": "percentage"}}},
          "then": {"properties": {"value": {"maximum": 100}}}
        }
      ]
    }
  }
}`

const updateDiscountSchema = `{
  "type": "object",
  "required": ["operation", "confirmed", "id", "changes"],
  "properties": {
    "operation": {"const": "update_discount"},
    "confirmed": {"type": "boolean"},
    "id": {"type": "string", "minLength": 1},
    "code": {"type": "string"},
    "changes": {
      "type": "object",
      "minProperties": 1,
      "additionalProperties": false,
      "properties": {
        "isActive": {"type": "boolean"},
        "usageLimit": {"type": "integer", "minimum": 0},
        "value": {"type": "number", "minimum": 0},
        "description": {"type": "string"}
      }
    }
  }
}`

const deleteDiscountSchema = `{
  "type": "object",
  "required": ["operation", "confirmed", "id"],
  "properties": {
    "operation": {"const": "delete_discount"},
    "confirmed": {"type": "boolean"},
    "id": {"type": "string", "minLength": 1},
    "code": {"type": "string"}
  }
}`

const bulkSchema = `{
  "type": "object",
  "required": ["operation", "confirmed", "entity", "bulkOperation", "ids"],
  "properties": {
    "operation": {"const": "bulk"},
    "confirmed": {"type": "boolean"},
    "entity": {"type": "string", "enum": ["catalog", "orders", "messages", "discounts"]},
    "bulkOperation": {"type": "string", "enum": ["activate", "deactivate", "delete", "mark_read", "archive"]},
    "ids": {"type": "array", "minItems": 1, "items": {"type": "string", "minLength": 1}}
  }
}`

var actionSchemas = map[string]*Schema{
	OpCreateDiscount: MustCompile(createDiscountSchema),
	OpUpdateDiscount: MustCompile(updateDiscountSchema),
	OpDeleteDiscount: MustCompile(deleteDiscountSchema),
	OpBulk:           MustCompile(bulkSchema),
}

// ValidateAction checks the data of a confirm action against the schema of
// its operation.
func ValidateAction(data map[string]interface{}) (*ValidationResult, error) {
	op, _ := data["operation"].(string)
	schema, ok := actionSchemas[op]
	if !ok {
		return &ValidationResult{
			Errors: []ValidationError{{
				Field:   "operation",
				Message: fmt.Sprintf("unknown operation %q", op),
				Code:    "INVALID_ENUM_VALUE",
			}},
		}, nil
	}
	return schema.Validate(data)
}
