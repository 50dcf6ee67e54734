package recipes

import (
	"fmt"

	"github.com/roach88/graphsmith/internal/catalog"
	"github.com/roach88/graphsmith/internal/ir"
	"github.com/roach88/graphsmith/internal/params"
	"github.com/roach88/graphsmith/internal/pipeline"
	"github.com/roach88/graphsmith/internal/workflow"
)

// SDXLFaceDetailUpscaler is the name of the SDXL face detail recipe.
const SDXLFaceDetailUpscaler = "sdxl_face_detail_upscaler"

const loraSlots = 3

const faceNegative = "cartoon, illustration, anime, painting, CGI, 3D render, low quality, watermark, logo, label"

func loraName(i int) string     { return fmt.Sprintf("lora%d_name", i) }
func loraStrength(i int) string { return fmt.Sprintf("lora%d_strength", i) }

// SDXLFaceDetailRecipe is a photorealistic SDXL recipe with a LoRA stack,
// model upscaling, face and eye detailing and optional film effects.
func SDXLFaceDetailRecipe() *workflow.Descriptor {
	fields := []params.Field{
		params.String("prompt", params.Required(), params.Describe("The positive prompt for image generation")),
		params.String("negative_prompt", params.Default(faceNegative), params.Describe("The negative prompt to exclude elements")),
		params.Int("width", params.Default(768), params.Range(512, 2048), params.MultipleOf(64), params.Describe("Width of the generated image (must be multiple of 64)")),
		params.Int("height", params.Default(1152), params.Range(512, 2048), params.MultipleOf(64), params.Describe("Height of the generated image (must be multiple of 64)")),
		seedField(),
		stepsField(32, "Number of sampling steps"),
		params.Float("cfg", params.Default(4), params.Range(1, 20), params.Describe("Classifier-free guidance scale")),
		samplerField("dpmpp_2m_sde"),
		schedulerField("karras"),
		modelField("checkpoint_name", "huslyorealismxl_v10.safetensors", "SDXL checkpoint model name"),
		modelField("vae_name", "sdxl_vae.safetensors", "VAE model name for SDXL"),
	}
	loraDefaults := [loraSlots]struct {
		name     string
		strength float64
	}{
		{"Touch-of-Realism-SDXL-V2.safetensors", 1},
		{"", 0.7},
		{"", 1},
	}
	for i, d := range loraDefaults {
		n := i + 1
		fields = append(fields,
			params.String(loraName(n), params.Default(d.name), params.Describe(fmt.Sprintf("LoRA %d model name; empty disables the slot", n))),
			params.Float(loraStrength(n), params.Default(d.strength), params.Range(0.1, 1.5), params.Describe(fmt.Sprintf("LoRA %d strength", n))),
		)
	}
	fields = append(fields,
		params.Bool("face_enhancement_enabled", params.Default(true), params.Describe("Enable face enhancement processing")),
		params.Int("face_resolution", params.Default(768), params.Range(256, 2048), params.MultipleOf(64), params.Describe("Resolution for face crop processing")),
		params.Float("face_detection_confidence", params.Default(0.5), params.Range(0.1, 1), params.Describe("Face detection confidence threshold")),
		params.Float("face_denoise", params.Default(0.5), params.Range(0, 1), params.Describe("Denoising strength for face enhancement")),
		params.Bool("eye_enhancement_enabled", params.Default(true), params.Describe("Enable eye enhancement processing; requires face enhancement")),
		params.Int("eye_resolution", params.Default(1024), params.Range(256, 2048), params.MultipleOf(64), params.Describe("Resolution for eye crop processing")),
		params.Float("eye_denoise", params.Default(0.5), params.Range(0, 1), params.Describe("Denoising strength for eye enhancement")),
		params.Bool("upscale_enabled", params.Default(true), params.Describe("Enable image upscaling")),
		modelField("upscale_model", "4x_foolhardy_Remacri.pth", "Upscale model name"),
		params.Float("upscale_factor", params.Default(0.65), params.Range(0.1, 1), params.Describe("Scale applied after the model upscale")),
		params.Bool("film_grain_enabled", params.Describe("Enable film grain effect")),
		params.String("film_grain_type", params.Default("Fine Simple"), params.Describe("Film grain type")),
		params.Float("film_grain_intensity", params.Default(0.1), params.Range(0, 1), params.Describe("Film grain intensity")),
		params.Bool("digital_effects_enabled", params.Describe("Enable digital look effects")),
		params.String("digital_effects_style", params.Default("Early 2000s Digital"), params.Describe("Digital effects style")),
		params.Float("digital_effects_intensity", params.Default(0.2), params.Range(0, 1), params.Describe("Digital effects intensity")),
	)

	loaders := required("loaders", func(c *chain) {
		ckpt := c.add("CheckpointLoaderSimple", "Load Checkpoint", ir.Inputs{"ckpt_name": c.v("checkpoint_name")})
		skip := c.add("CLIPSetLastLayer", "CLIP Set Last Layer", ir.Inputs{
			"clip":               ir.Out(ckpt, 1),
			"stop_at_clip_layer": ir.Int(-2),
		})
		vae := c.add("VAELoader", "Load VAE", ir.Inputs{"vae_name": c.v("vae_name")})

		c.bind(wireModel, ir.Out(ckpt, 0))
		c.bind(wireClip, ir.Out(skip, 0))
		c.bind(wireVAE, ir.Out(vae, 0))
	})

	var anyLora []pipeline.Predicate
	for i := 1; i <= loraSlots; i++ {
		anyLora = append(anyLora, pipeline.NonEmpty(loraName(i)))
	}
	loraStack := optional("lora_stack", pipeline.Any(anyLora...), func(c *chain) {
		in := ir.Inputs{
			"model": c.wire(wireModel),
			"clip":  c.wire(wireClip),
		}
		for i := 1; i <= loraSlots; i++ {
			name, strength := ir.Value(ir.String("None")), ir.Value(ir.Int(1))
			if c.p.String(loraName(i)) != "" {
				name, strength = c.v(loraName(i)), c.v(loraStrength(i))
			}
			in[fmt.Sprintf("lora_%02d", i)] = name
			in[fmt.Sprintf("strength_%02d", i)] = strength
		}
		id := c.preset("lora_stack", "Lora Loader Stack", in)
		c.bind(wireModel, ir.Out(id, 0))
		c.bind(wireClip, ir.Out(id, 1))
	})

	encode := required("encode", func(c *chain) {
		clip := c.wire(wireClip)
		pos := c.add("CLIPTextEncode", "CLIP Text Encode (Positive Prompt)", ir.Inputs{"text": c.v("prompt"), "clip": clip})
		neg := c.add("CLIPTextEncode", "CLIP Text Encode (Negative Prompt)", ir.Inputs{"text": c.v("negative_prompt"), "clip": clip})
		latent := c.add("EmptyLatentImage", "Empty Latent Image", ir.Inputs{
			"width":      c.v("width"),
			"height":     c.v("height"),
			"batch_size": ir.Int(1),
		})
		c.bind(wirePositive, ir.Out(pos, 0))
		c.bind(wireNegative, ir.Out(neg, 0))
		c.bind(wireLatent, ir.Out(latent, 0))
	})

	// The efficient sampler passes model, conditioning and vae through; the
	// detailers read them from its outputs.
	sample := required("sample", func(c *chain) {
		in := c.sampling("steps", "cfg")
		in["denoise"] = ir.Int(1)
		in["model"] = c.wire(wireModel)
		in["positive"] = c.wire(wirePositive)
		in["negative"] = c.wire(wireNegative)
		in["latent_image"] = c.wire(wireLatent)
		in["optional_vae"] = c.wire(wireVAE)

		k := c.preset("efficient_sampler", "KSampler (Efficient)", in)
		c.decode("VAE Decode", ir.Out(k, 3))

		c.bind(wireModel, ir.Out(k, 0))
		c.bind(wirePositive, ir.Out(k, 1))
		c.bind(wireNegative, ir.Out(k, 2))
		c.bind(wireVAE, ir.Out(k, 4))
	})

	upscale := optional("upscale", pipeline.Flag("upscale_enabled"), func(c *chain) {
		loader := c.add("UpscaleModelLoader", "Load Upscale Model", ir.Inputs{"model_name": c.v("upscale_model")})
		up := c.add("ImageUpscaleWithModel", "Upscale Image", ir.Inputs{
			"upscale_model": ir.Out(loader, 0),
			"image":         c.head(),
		})
		scaled := c.add("ImageScaleBy", "Scale Image", ir.Inputs{
			"upscale_method": ir.String("lanczos"),
			"scale_by":       c.v("upscale_factor"),
			"image":          ir.Out(up, 0),
		})
		c.setHead(ir.Out(scaled, 0))
	})

	face := optional("face_detail", pipeline.Flag("face_enhancement_enabled"), func(c *chain) {
		det := c.preset("face_detector", "Face Detector Provider", nil)
		in := c.detailerInputs("face_resolution", "face_denoise")
		in["bbox_threshold"] = c.v("face_detection_confidence")
		in["bbox_detector"] = ir.Out(det, 0)
		id := c.preset("face_detailer", "Face Detailer", in)
		c.setHead(ir.Out(id, 0))
	})

	eyes := optional("eye_detail", pipeline.All(pipeline.Flag("face_enhancement_enabled"), pipeline.Flag("eye_enhancement_enabled")), func(c *chain) {
		det := c.preset("eye_detector", "Eye Detector Provider", nil)
		sam := c.preset("sam_vit_b", "SAM Loader", nil)
		in := c.detailerInputs("eye_resolution", "eye_denoise")
		in["bbox_detector"] = ir.Out(det, 0)
		in["sam_model_opt"] = ir.Out(sam, 0)
		in["segm_detector_opt"] = ir.Out(det, 1)
		id := c.preset("eye_detailer", "Eye Detailer", in)
		c.setHead(ir.Out(id, 0))
	})

	digital := optional("digital_look", pipeline.Flag("digital_effects_enabled"), func(c *chain) {
		id := c.add("LowQualityDigitalLook", "Digital Effects", ir.Inputs{
			"filter_type": c.v("digital_effects_style"),
			"intensity":   c.v("digital_effects_intensity"),
			"seed":        c.v("seed"),
			"image":       c.head(),
		})
		c.setHead(ir.Out(id, 0))
	})

	grain := optional("film_grain", pipeline.Flag("film_grain_enabled"), func(c *chain) {
		amount := c.v("film_grain_intensity")
		id := c.preset("pro_film_grain", "Film Grain", ir.Inputs{
			"grain_type": c.v("film_grain_type"),
			"red":        amount,
			"green":      amount,
			"blue":       amount,
			"luminance":  amount,
			"seed":       c.v("seed"),
			"image":      c.head(),
		})
		c.setHead(ir.Out(id, 0))
	})

	return &workflow.Descriptor{
		Name:        SDXLFaceDetailUpscaler,
		Summary:     "SDXL Face Detail + Upscaler",
		Description: "Photorealistic SDXL workflow with a LoRA stack, model upscaling, face and eye enhancement and optional post-processing effects",
		Spec:        params.MustSpec(fields...),
		Stages:      []pipeline.Stage{loaders, loraStack, encode, sample, upscale, face, eyes, digital, grain},
		Terminal:    save("ComfyUI_SDXL_FaceDetail"),
		Catalog:     catalog.Default(),
	}
}

// detailerInputs are the inputs both FaceDetailer passes share: the image
// at the head, the sampler pass-through wires and the sampling settings.
func (c *chain) detailerInputs(guide, denoise string) ir.Inputs {
	return ir.Inputs{
		"guide_size":   c.v(guide),
		"seed":         c.v("seed"),
		"cfg":          c.v("cfg"),
		"sampler_name": c.v("sampler_name"),
		"scheduler":    c.v("scheduler"),
		"denoise":      c.v(denoise),
		"image":        c.head(),
		"model":        c.wire(wireModel),
		"clip":         c.wire(wireClip),
		"vae":          c.wire(wireVAE),
		"positive":     c.wire(wirePositive),
		"negative":     c.wire(wireNegative),
	}
}
