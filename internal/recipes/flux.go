package recipes

import (
	"github.com/roach88/graphsmith/internal/catalog"
	"github.com/roach88/graphsmith/internal/ir"
	"github.com/roach88/graphsmith/internal/params"
	"github.com/roach88/graphsmith/internal/pipeline"
	"github.com/roach88/graphsmith/internal/workflow"
)

// FluxDepth is the name of the Flux depth recipe.
const FluxDepth = "flux_depth"

// FluxDepthRecipe generates an image from a prompt conditioned on an input
// image through InstructPix2Pix conditioning.
//
// The LoRA, when present, sits between ModelSamplingFlux and the sampler and
// rebinds both model and clip. Guidance is applied to the positive
// conditioning before it reaches the pix2pix node.
func FluxDepthRecipe() *workflow.Descriptor {
	spec := params.MustSpec(
		params.String("image", params.Required(), params.Describe("Input image for depth-based generation as URL or base64 encoded string")),
		params.String("prompt", params.Required(), params.Describe("The positive prompt for image generation")),
		params.Float("guidance", params.Default(30), params.Range(0, 100), params.Describe("Flux guidance strength")),
		seedField(),
		stepsField(20, "Number of sampling steps"),
		params.Float("cfg", params.Default(1), params.Range(0, 20), params.Describe("Classifier-free guidance scale")),
		samplerField("euler"),
		schedulerField("simple"),
		denoiseField(),
		params.Int("width", params.Default(1024), params.Range(256, 2048), params.Describe("Width of the generated image")),
		params.Int("height", params.Default(1024), params.Range(256, 2048), params.Describe("Height of the generated image")),
		modelField("unet_name", "flux1-dev.safetensors", "UNET model name"),
		modelField("clip_name1", "clip_l.safetensors", "First CLIP model name"),
		modelField("clip_name2", "t5xxl_fp8_e4m3fn.safetensors", "Second CLIP model name"),
		modelField("vae_name", "ae.safetensors", "VAE model name"),
		params.String("lora_name", params.Describe("Optional LoRA model name")),
		params.Float("lora_strength", params.Default(1), params.Range(0, 2), params.Describe("LoRA model strength")),
	)

	loaders := required("loaders", func(c *chain) {
		unet := c.add("UNETLoader", "Load Diffusion Model", ir.Inputs{
			"unet_name":    c.v("unet_name"),
			"weight_dtype": ir.String("default"),
		})
		clip := c.add("DualCLIPLoader", "DualCLIPLoader", ir.Inputs{
			"clip_name1": c.v("clip_name1"),
			"clip_name2": c.v("clip_name2"),
			"type":       ir.String("flux"),
		})
		vae := c.add("VAELoader", "Load VAE", ir.Inputs{"vae_name": c.v("vae_name")})
		img := c.add("LoadImage", "Load Image", ir.Inputs{
			"image":  c.v("image"),
			"upload": ir.String("image"),
		})

		c.bind(wireModel, ir.Out(unet, 0))
		c.bind(wireClip, ir.Out(clip, 0))
		c.bind(wireVAE, ir.Out(vae, 0))
		c.bind(wireImage, ir.Out(img, 0))
	})

	sampling := required("model_sampling", func(c *chain) {
		id := c.preset("model_sampling_flux", "ModelSamplingFlux", ir.Inputs{
			"width":  c.v("width"),
			"height": c.v("height"),
			"model":  c.wire(wireModel),
		})
		c.bind(wireModel, ir.Out(id, 0))
	})

	lora := optional("lora", pipeline.NonEmpty("lora_name"), func(c *chain) {
		id := c.add("LoraLoader", "Load LoRA", ir.Inputs{
			"lora_name":      c.v("lora_name"),
			"strength_model": c.v("lora_strength"),
			"strength_clip":  c.v("lora_strength"),
			"model":          c.wire(wireModel),
			"clip":           c.wire(wireClip),
		})
		c.bind(wireModel, ir.Out(id, 0))
		c.bind(wireClip, ir.Out(id, 1))
	})

	encode := required("encode", func(c *chain) {
		text := c.add("CLIPTextEncode", "CLIP Text Encode (Positive Prompt)", ir.Inputs{
			"text": c.v("prompt"),
			"clip": c.wire(wireClip),
		})
		guided := c.add("FluxGuidance", "FluxGuidance", ir.Inputs{
			"guidance":     c.v("guidance"),
			"conditioning": ir.Out(text, 0),
		})
		pix := c.add("InstructPixToPixConditioning", "InstructPix2Pix Conditioning", ir.Inputs{
			"positive": ir.Out(guided, 0),
			"negative": ir.Out(text, 0),
			"vae":      c.wire(wireVAE),
			"pixels":   c.wire(wireImage),
		})
		c.bind(wirePositive, ir.Out(pix, 0))
		c.bind(wireNegative, ir.Out(pix, 1))
		c.bind(wireLatent, ir.Out(pix, 2))
	})

	return &workflow.Descriptor{
		Name:        FluxDepth,
		Summary:     "Flux Depth-Based Generation",
		Description: "Generate images using Flux with depth-based conditioning from an input image",
		Spec:        spec,
		Stages:      []pipeline.Stage{loaders, sampling, lora, encode, ksampler()},
		Terminal:    save("ComfyUI"),
		Catalog:     catalog.Default(),
	}
}
