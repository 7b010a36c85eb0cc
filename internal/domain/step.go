package domain

// TransformationStep is one ordered instruction within a protocol,
// optionally tied to a glyph. step_order is unique within a protocol and
// defines execution sequence.
type TransformationStep struct {
	ID              int64  `json:"id"`
	ProtocolID      int64  `json:"protocol_id"`
	GlyphID         *int64 `json:"glyph_id,omitempty"`
	StepOrder       int    `json:"step_order"`
	Instruction     string `json:"instruction"`
	DurationSeconds int    `json:"duration_seconds"`
	Parameters      Attrs  `json:"parameters"`
}

// Validate checks every field constraint on the step. Reference resolution
// (protocol_id, glyph_id) is the store's concern.
func (s *TransformationStep) Validate() error {
	var v violations
	if s.ProtocolID <= 0 {
		v.add("protocol_id", "required", s.ProtocolID)
	}
	v.atLeast("step_order", s.StepOrder, 1)
	v.required("instruction", s.Instruction)
	v.maxLen("instruction", s.Instruction, 500)
	v.atLeast("duration_seconds", s.DurationSeconds, 1)
	return v.err("transformation step")
}

// StepCreate is the user-supplied shape for adding a step to a protocol.
type StepCreate struct {
	ProtocolID      int64  `json:"protocol_id"`
	GlyphID         *int64 `json:"glyph_id,omitempty"`
	StepOrder       int    `json:"step_order"`
	Instruction     string `json:"instruction"`
	DurationSeconds *int   `json:"duration_seconds,omitempty"` // default 300
	Parameters      Attrs  `json:"parameters,omitempty"`       // default {}
}

// Materialize builds the persisted entity with defaults applied.
func (c StepCreate) Materialize() *TransformationStep {
	s := &TransformationStep{
		ProtocolID:      c.ProtocolID,
		GlyphID:         c.GlyphID,
		StepOrder:       c.StepOrder,
		Instruction:     c.Instruction,
		DurationSeconds: 300,
		Parameters:      cloneAttrs(c.Parameters),
	}
	if c.DurationSeconds != nil {
		s.DurationSeconds = *c.DurationSeconds
	}
	return s
}

// StepPatch is a partial update. protocol_id is immutable: a step never
// moves between protocols. GlyphID takes a pointer element so Set(nil)
// detaches the glyph.
type StepPatch struct {
	GlyphID         Opt[*int64] `json:"glyph_id"`
	StepOrder       Opt[int]    `json:"step_order"`
	Instruction     Opt[string] `json:"instruction"`
	DurationSeconds Opt[int]    `json:"duration_seconds"`
	Parameters      Opt[Attrs]  `json:"parameters"`
}

// Apply overlays the set fields onto s.
func (p StepPatch) Apply(s *TransformationStep) {
	if p.GlyphID.IsSet() {
		s.GlyphID = p.GlyphID.Value()
	}
	if p.StepOrder.IsSet() {
		s.StepOrder = p.StepOrder.Value()
	}
	if p.Instruction.IsSet() {
		s.Instruction = p.Instruction.Value()
	}
	if p.DurationSeconds.IsSet() {
		s.DurationSeconds = p.DurationSeconds.Value()
	}
	if p.Parameters.IsSet() {
		s.Parameters = cloneAttrs(p.Parameters.Value())
	}
}
