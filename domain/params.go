package domain

// ParamFlags maps live performance parameters to the "should_use" flag the
// mediator requires before a value write takes effect. A value write without
// its flag is silently ignored on the mediator side, so every mapped write
// must be preceded by its flag write.
var ParamFlags = map[string]string{
	"strength":         "should_use_deforumation_strength",
	"cfg":              "should_use_deforumation_cfg",
	"cadence":          "should_use_deforumation_cadence",
	"noise_multiplier": "should_use_deforumation_noise",
	"translation_x":    "should_use_deforumation_panning",
	"translation_y":    "should_use_deforumation_panning",
	"translation_z":    "should_use_deforumation_zoom",
	"rotation_x":       "should_use_deforumation_rotation",
	"rotation_y":       "should_use_deforumation_rotation",
	"rotation_z":       "should_use_deforumation_tilt",
	"fov":              "should_use_deforumation_fov",
}

// PromptFields are the prompt-related keys the mediator understands. Prompt
// writes are not flag-gated and are forwarded verbatim.
var PromptFields = map[string]bool{
	"positive_prompt":                  true,
	"negative_prompt":                  true,
	"positive_prompt_1":                true,
	"positive_prompt_2":                true,
	"negative_prompt_1":                true,
	"prompt_mix":                       true,
	"should_use_deforumation_prompts":  true,
	"should_use_before_deforum_prompt": true,
	"should_use_after_deforum_prompt":  true,
	"should_use_deforumation_prompt_scheduling": true,
}

// DefaultStateKeys is the parameter set fetched for status snapshots.
var DefaultStateKeys = []string{
	"cfg",
	"strength",
	"noise_multiplier",
	"cadence",
	"translation_x",
	"translation_y",
	"translation_z",
	"rotation_x",
	"rotation_y",
	"rotation_z",
	"fov",
	"seed",
	"total_generated_images",
	"start_frame",
}
