package recipes

import (
	"github.com/roach88/graphsmith/internal/catalog"
	"github.com/roach88/graphsmith/internal/ir"
	"github.com/roach88/graphsmith/internal/params"
	"github.com/roach88/graphsmith/internal/pipeline"
	"github.com/roach88/graphsmith/internal/workflow"
)

// Recipe names.
const (
	QwenImageTxt2Img  = "qwen_image_txt2img"
	QwenImageEdit     = "qwen_image_edit"
	QwenLightningEdit = "qwen_lightning_edit"
)

const (
	qwenUNET     = "qwen_image_fp8_e4m3fn.safetensors"
	qwenEditUNET = "qwen_image_edit_fp8_e4m3fn.safetensors"
	qwenCLIP     = "qwen_2.5_vl_7b_fp8_scaled.safetensors"
	qwenVAE      = "qwen_image_vae.safetensors"
)

func qwenLoaders() pipeline.Stage {
	return required("loaders", func(c *chain) {
		unet := c.add("UNETLoader", "Load Diffusion Model", ir.Inputs{
			"unet_name":    c.v("unet_name"),
			"weight_dtype": ir.String("default"),
		})
		clip := c.add("CLIPLoader", "Load CLIP", ir.Inputs{
			"clip_name": c.v("clip_name"),
			"type":      ir.String("qwen_image"),
			"device":    ir.String("default"),
		})
		vae := c.add("VAELoader", "Load VAE", ir.Inputs{"vae_name": c.v("vae_name")})

		c.bind(wireModel, ir.Out(unet, 0))
		c.bind(wireClip, ir.Out(clip, 0))
		c.bind(wireVAE, ir.Out(vae, 0))
	})
}

func auraFlow() pipeline.Stage {
	return required("model_sampling", func(c *chain) {
		id := c.add("ModelSamplingAuraFlow", "ModelSamplingAuraFlow", ir.Inputs{
			"shift": c.v("shift"),
			"model": c.wire(wireModel),
		})
		c.bind(wireModel, ir.Out(id, 0))
	})
}

// ksampler appends the plain KSampler over the bound wires and decodes it.
func ksampler() pipeline.Stage {
	return required("sample", func(c *chain) {
		in := c.sampling("steps", "cfg")
		in["denoise"] = c.v("denoise")
		in["model"] = c.wire(wireModel)
		in["positive"] = c.wire(wirePositive)
		in["negative"] = c.wire(wireNegative)
		in["latent_image"] = c.wire(wireLatent)

		id := c.add("KSampler", "KSampler", in)
		c.decode("VAE Decode", ir.Out(id, 0))
	})
}

func denoiseField() params.Field {
	return params.Float("denoise", params.Default(1), params.Range(0, 1), params.Describe("Denoising strength"))
}

func shiftField(def float64) params.Field {
	return params.Float("shift", params.Default(def), params.Range(0, 10), params.Describe("ModelSamplingAuraFlow shift parameter"))
}

// QwenTxt2ImgRecipe generates images from text with the Qwen Image model.
func QwenTxt2ImgRecipe() *workflow.Descriptor {
	spec := params.MustSpec(
		params.String("prompt", params.Required(), params.Describe("The positive prompt for image generation")),
		params.String("negative_prompt", params.Describe("The negative prompt to exclude elements")),
		params.Int("width", params.Default(1328), params.Range(256, 2048), params.Describe("Width of the generated image")),
		params.Int("height", params.Default(1328), params.Range(256, 2048), params.Describe("Height of the generated image")),
		seedField(),
		stepsField(20, "Number of sampling steps"),
		params.Float("cfg", params.Default(4.5), params.Range(0, 20), params.Describe("Classifier-free guidance scale")),
		samplerField("euler"),
		schedulerField("simple"),
		denoiseField(),
		shiftField(3.1),
		modelField("unet_name", qwenUNET, "UNET model name"),
		modelField("clip_name", qwenCLIP, "CLIP model name"),
		modelField("vae_name", qwenVAE, "VAE model name"),
	)

	encode := required("encode", func(c *chain) {
		clip := c.wire(wireClip)
		pos := c.add("CLIPTextEncode", "CLIP Text Encode (Positive Prompt)", ir.Inputs{"text": c.v("prompt"), "clip": clip})
		neg := c.add("CLIPTextEncode", "CLIP Text Encode (Negative Prompt)", ir.Inputs{"text": c.v("negative_prompt"), "clip": clip})
		latent := c.add("EmptySD3LatentImage", "EmptySD3LatentImage", ir.Inputs{
			"width":      c.v("width"),
			"height":     c.v("height"),
			"batch_size": ir.Int(1),
		})
		c.bind(wirePositive, ir.Out(pos, 0))
		c.bind(wireNegative, ir.Out(neg, 0))
		c.bind(wireLatent, ir.Out(latent, 0))
	})

	return &workflow.Descriptor{
		Name:        QwenImageTxt2Img,
		Summary:     "Qwen Image Text to Image",
		Description: "Generate images using Qwen Image model with AuraFlow sampling",
		Spec:        spec,
		Stages:      []pipeline.Stage{qwenLoaders(), auraFlow(), encode, ksampler()},
		Terminal:    save("ComfyUI"),
		Catalog:     catalog.Default(),
	}
}

// editFields are the parameters shared by both edit recipes.
func editFields(promptDesc string) []params.Field {
	return []params.Field{
		params.String("image", params.Required(), params.Describe("Input image as URL or base64 encoded string")),
		params.String("prompt", params.Required(), params.Describe(promptDesc)),
		params.String("negative_prompt", params.Describe("The negative prompt to exclude elements")),
		seedField(),
		stepsField(20, "Number of sampling steps"),
		params.Float("cfg", params.Default(2.5), params.Range(0, 20), params.Describe("Classifier-free guidance scale")),
		samplerField("euler"),
		schedulerField("simple"),
		denoiseField(),
		params.Float("upscale_factor", params.Default(1.25), params.Range(0.5, 4), params.Describe("Image upscale factor before processing")),
		shiftField(3.0),
		params.Float("normalization_level", params.Default(1), params.Range(0, 1), params.Describe("CFG normalization level")),
		params.Float("strength", params.Default(1), params.Range(0, 2), params.Describe("CFGNorm and FastLaplacianSharpen strength")),
		params.String("upscale_method", params.Default("lanczos"), params.Describe("Image upscaling method")),
		modelField("unet_name", qwenEditUNET, "UNET model name"),
		modelField("clip_name", qwenCLIP, "CLIP model name"),
		modelField("vae_name", qwenVAE, "VAE model name"),
	}
}

func editSource() pipeline.Stage {
	return required("source", func(c *chain) {
		load := c.add("LoadImage", "Load Image", ir.Inputs{
			"image":  c.v("image"),
			"upload": ir.String("image"),
		})
		scaled := c.add("ImageScaleToTotalPixels", "Image Scale to Total Pixels", ir.Inputs{
			"upscale_factor": c.v("upscale_factor"),
			"upscale_method": c.v("upscale_method"),
			"megapixels":     ir.Int(1),
			"image":          ir.Out(load, 0),
		})
		c.bind(wireImage, ir.Out(scaled, 0))
	})
}

func cfgNorm() pipeline.Stage {
	return required("cfg_norm", func(c *chain) {
		id := c.add("CFGNorm", "CFG Normalization", ir.Inputs{
			"normalization_level": c.v("normalization_level"),
			"strength":            c.v("strength"),
			"model":               c.wire(wireModel),
		})
		c.bind(wireModel, ir.Out(id, 0))
	})
}

func editEncode() pipeline.Stage {
	return required("encode", func(c *chain) {
		clip, vae, image := c.wire(wireClip), c.wire(wireVAE), c.wire(wireImage)
		pos := c.add("TextEncodeQwenImageEdit", "Text Encode Qwen Image Edit (Positive)", ir.Inputs{
			"prompt": c.v("prompt"), "clip": clip, "vae": vae, "image": image,
		})
		neg := c.add("TextEncodeQwenImageEdit", "Text Encode Qwen Image Edit (Negative)", ir.Inputs{
			"prompt": c.v("negative_prompt"), "clip": clip, "vae": vae, "image": image,
		})
		latent := c.add("VAEEncode", "VAE Encode", ir.Inputs{"pixels": image, "vae": vae})

		c.bind(wirePositive, ir.Out(pos, 0))
		c.bind(wireNegative, ir.Out(neg, 0))
		c.bind(wireLatent, ir.Out(latent, 0))
	})
}

// loraModelOnly inserts a model-only LoRA between the UNET and model sampling.
func loraModelOnly(name string, pred pipeline.Predicate, preset, title string) pipeline.Stage {
	apply := func(c *chain) {
		in := ir.Inputs{
			"strength_model": c.v("lora_strength"),
			"model":          c.wire(wireModel),
		}
		var id string
		if preset != "" {
			id = c.preset(preset, title, in)
		} else {
			in["lora_name"] = c.v("lora_name")
			id = c.add("LoraLoaderModelOnly", title, in)
		}
		c.bind(wireModel, ir.Out(id, 0))
	}
	if pred == nil {
		return required(name, apply)
	}
	return optional(name, pred, apply)
}

// QwenEditRecipe edits an input image with the Qwen Image Edit model.
func QwenEditRecipe() *workflow.Descriptor {
	fields := append(editFields("The editing instruction prompt"),
		params.String("lora_name", params.Describe("Optional LoRA model name")),
		params.Float("lora_strength", params.Default(1), params.Range(0, 2), params.Describe("LoRA model strength")),
	)

	return &workflow.Descriptor{
		Name:        QwenImageEdit,
		Summary:     "Qwen Image Edit",
		Description: "Edit images using Qwen Image Edit model with AuraFlow sampling and CFG normalization, with an optional LoRA",
		Spec:        params.MustSpec(fields...),
		Stages: []pipeline.Stage{
			qwenLoaders(),
			editSource(),
			loraModelOnly("lora", pipeline.NonEmpty("lora_name"), "", "Load LoRA (Optional)"),
			auraFlow(),
			cfgNorm(),
			editEncode(),
			ksampler(),
		},
		Terminal: save("ComfyUI"),
		Catalog:  catalog.Default(),
	}
}

// QwenLightningRecipe is the edit recipe with the Lightning LoRA always
// applied and sharpening plus film grain after decoding.
func QwenLightningRecipe() *workflow.Descriptor {
	fields := append(editFields("The editing instruction prompt"),
		params.Float("sharpening_factor", params.Default(0.2), params.Range(0, 1), params.Describe("Laplacian sharpening factor")),
		params.Float("film_grain", params.Default(0.1), params.Range(0, 1), params.Describe("Film grain intensity")),
		params.Float("saturation_mix", params.Default(0.5), params.Range(0, 1), params.Describe("Film grain saturation mix")),
		params.Float("grain_intensity", params.Default(0.1), params.Range(0, 1), params.Describe("Film grain intensity parameter")),
		params.Float("lora_strength", params.Default(1), params.Range(0, 2), params.Describe("Lightning LoRA strength")),
	)

	sharpen := required("sharpen", func(c *chain) {
		id := c.add("FastLaplacianSharpen", "Fast Laplacian Sharpen", ir.Inputs{
			"factor":   c.v("sharpening_factor"),
			"strength": c.v("strength"),
			"images":   c.head(),
		})
		c.setHead(ir.Out(id, 0))
	})

	grain := required("film_grain", func(c *chain) {
		id := c.preset("fast_film_grain", "Fast Film Grain", ir.Inputs{
			"amount":          c.v("film_grain"),
			"grain_intensity": c.v("grain_intensity"),
			"saturation_mix":  c.v("saturation_mix"),
			"seed":            c.v("seed"),
			"images":          c.head(),
		})
		c.setHead(ir.Out(id, 0))
	})

	return &workflow.Descriptor{
		Name:        QwenLightningEdit,
		Summary:     "Qwen Lightning LoRA Edit",
		Description: "Image editing using Qwen Image Edit with the Lightning LoRA, followed by sharpening and film grain",
		Spec:        params.MustSpec(fields...),
		Stages: []pipeline.Stage{
			qwenLoaders(),
			editSource(),
			loraModelOnly("lightning_lora", nil, "lightning_lora", "Load Lightning LoRA"),
			auraFlow(),
			cfgNorm(),
			editEncode(),
			ksampler(),
			sharpen,
			grain,
		},
		Terminal: save("ComfyUI_Lightning"),
		Catalog:  catalog.Default(),
	}
}
