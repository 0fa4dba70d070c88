package types

// CapabilityInputType enumerates the declared types of capability input fields.
type CapabilityInputType string

const (
	InputTypeText     CapabilityInputType = "text"
	InputTypeTextarea CapabilityInputType = "textarea"
	InputTypeNumber   CapabilityInputType = "number"
	InputTypeSelect   CapabilityInputType = "select"
	InputTypeCheckbox CapabilityInputType = "checkbox"
)

// CapabilityInput describes one input field a capability accepts.
type CapabilityInput struct {
	Name     string              `yaml:"name" json:"name"`
	Label    string              `yaml:"label,omitempty" json:"label,omitempty"`
	Type     CapabilityInputType `yaml:"type" json:"type"`
	Required bool                `yaml:"required" json:"required"`
	Default  any                 `yaml:"default,omitempty" json:"default,omitempty"`
	Options  []string            `yaml:"options,omitempty" json:"options,omitempty"`
}

// CapabilityOutput describes the output payload of a capability.
type CapabilityOutput struct {
	Name        string   `yaml:"name" json:"name"`
	Description string   `yaml:"description,omitempty" json:"description,omitempty"`
	Fields      []string `yaml:"fields,omitempty" json:"fields,omitempty"`
}

// CapabilityManifest is the self-description of a capability. The validator
// uses it to resolve plugin node references and to sanity-check field
// mappings against the declared schema.
type CapabilityManifest struct {
	ID          string            `yaml:"id" json:"id"`
	Name        string            `yaml:"name" json:"name"`
	Version     string            `yaml:"version" json:"version"`
	Description string            `yaml:"description,omitempty" json:"description,omitempty"`
	Inputs      []CapabilityInput `yaml:"inputs,omitempty" json:"inputs,omitempty"`
	Output      CapabilityOutput  `yaml:"output" json:"output"`
	Tags        []string          `yaml:"tags,omitempty" json:"tags,omitempty"`
}

// InputNames returns the declared input field names in declaration order.
func (m *CapabilityManifest) InputNames() []string {
	names := make([]string, 0, len(m.Inputs))
	for _, in := range m.Inputs {
		names = append(names, in.Name)
	}
	return names
}
