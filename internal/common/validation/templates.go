package validation

// TemplatePayloadSchema describes the portable export shape
// {name, category, thumbnail, config}. Only name and config are required;
// config sub-fields are type-checked but optional.
const TemplatePayloadSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["name", "config"],
  "properties": {
    "name": {"type": "string", "minLength": 1, "maxLength": 200},
    "category": {"type": "string", "enum": ["", "professional", "creative", "minimal", "corporate"]},
    "thumbnail": {"type": "string"},
    "config": {
      "type": "object",
      "properties": {
        "layout": {"type": "string"},
        "colors": {
          "type": "object",
          "properties": {
            "primary": {"type": "string"},
            "secondary": {"type": "string"},
            "accent": {"type": "string"},
            "background": {"type": "string"},
            "text": {"type": "string"}
          }
        },
        "fonts": {
          "type": "object",
          "properties": {
            "heading": {"type": "string"},
            "body": {"type": "string"},
            "accent": {"type": "string"}
          }
        },
        "sections": {"type": "object", "additionalProperties": {"type": "boolean"}},
        "branding": {"type": "object", "additionalProperties": {"type": "boolean"}}
      }
    }
  }
}`

var templatePayload = MustCompile(TemplatePayloadSchema)

// ValidateTemplatePayload checks an import document against TemplatePayloadSchema.
func ValidateTemplatePayload(data []byte) (*ValidationResult, error) {
	return templatePayload.ValidateBytes(data)
}
