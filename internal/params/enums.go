package params

import "slices"

// Choices is an allow-list for an enumeration field.
type Choices []string

// Contains reports whether v is an allowed value.
func (c Choices) Contains(v string) bool {
	return slices.Contains(c, v)
}

var samplers = Choices{
	"euler", "euler_cfg_pp", "euler_ancestral", "euler_ancestral_cfg_pp",
	"heun", "heunpp2", "dpm_2", "dpm_2_ancestral", "lms", "dpm_fast",
	"dpm_adaptive", "dpmpp_2s_ancestral", "dpmpp_2s_ancestral_cfg_pp",
	"dpmpp_sde", "dpmpp_sde_gpu", "dpmpp_2m", "dpmpp_2m_cfg_pp",
	"dpmpp_2m_sde", "dpmpp_2m_sde_gpu", "dpmpp_3m_sde", "dpmpp_3m_sde_gpu",
	"ddpm", "lcm", "ipndm", "ipndm_v", "deis", "res_multistep",
	"res_multistep_cfg_pp", "res_multistep_ancestral",
	"res_multistep_ancestral_cfg_pp", "gradient_estimation", "er_sde",
	"seeds_2", "seeds_3", "ddim", "uni_pc", "uni_pc_bh2",
}

var schedulers = Choices{
	"simple", "sgm_uniform", "karras", "exponential", "ddim_uniform",
	"beta", "normal", "linear_quadratic", "kl_optimal",
}

// Samplers returns the sampler names accepted by the execution engine.
// Each call returns a fresh copy.
func Samplers() Choices {
	return slices.Clone(samplers)
}

// Schedulers returns the noise schedule names accepted by the execution engine.
// Each call returns a fresh copy.
func Schedulers() Choices {
	return slices.Clone(schedulers)
}
