package recipes

import (
	"fmt"

	"github.com/roach88/graphsmith/internal/catalog"
	"github.com/roach88/graphsmith/internal/ir"
	"github.com/roach88/graphsmith/internal/params"
	"github.com/roach88/graphsmith/internal/pipeline"
	"github.com/roach88/graphsmith/internal/workflow"
)

// SDXLAuthenticPortraits is the name of the three-pass SDXL portrait recipe.
const SDXLAuthenticPortraits = "sdxl_authentic_portraits"

const authenticNegative = "bad proportions, low resolution, bad, ugly, bad hands, bad teeth, terrible, painting, 3d, render, comic, anime, manga, unrealistic, flat, watermark, signature, worst quality, low quality, freckles, moled, spot on face"

// SDXLAuthenticRecipe runs base generation, an optional hires refinement and
// an optional face detailer pipe.
func SDXLAuthenticRecipe() *workflow.Descriptor {
	spec := params.MustSpec(
		params.String("prompt", params.Required(), params.Describe("The positive prompt for image generation")),
		params.String("negative_prompt", params.Default(authenticNegative), params.Describe("The negative prompt to exclude elements")),
		params.Int("width", params.Default(832), params.Range(512, 2048), params.MultipleOf(64), params.Describe("Width of the generated image (must be multiple of 64)")),
		params.Int("height", params.Default(1216), params.Range(512, 2048), params.MultipleOf(64), params.Describe("Height of the generated image (must be multiple of 64)")),
		seedField(),
		stepsField(8, "Number of sampling steps for base generation"),
		params.Float("cfg_scale", params.Default(1.5), params.Range(1, 20), params.Describe("Classifier-free guidance scale")),
		samplerField("dpmpp_sde"),
		schedulerField("karras"),
		modelField("checkpoint_name", "HuslyoRealismXL.safetensors", "SDXL checkpoint model name"),
		modelField("vae_name", "sdxl_vae.safetensors", "VAE model name for SDXL; empty uses the checkpoint VAE"),

		params.Bool("hires_enabled", params.Default(true), params.Describe("Enable hires refinement stage")),
		modelField("hires_upscale_model", "4x-UltraSharp.pth", "Upscale model for hires stage"),
		params.String("hires_upscale_method", params.Default("nearest-exact"), params.Describe("Upscaling interpolation method")),
		params.Float("hires_scale_percent", params.Default(50), params.Range(10, 200), params.Describe("Hires upscale percentage")),
		params.Float("hires_denoise", params.Default(0.3), params.Range(0, 1), params.Describe("Denoising strength for hires refinement")),
		params.Int("hires_steps", params.Default(8), params.Range(1, 100), params.Describe("Number of sampling steps for hires")),
		params.Float("hires_cfg", params.Default(1.5), params.Range(1, 20), params.Describe("CFG scale for hires sampling")),

		params.Bool("face_enhancement_enabled", params.Default(true), params.Describe("Enable face enhancement processing")),
		modelField("face_detection_model", "bbox/yolov11l-face.pt", "Face detection model"),
		modelField("face_sam_model", "sam_vit_l_0b3195.pth", "SAM model for face segmentation"),
		params.Int("face_resolution", params.Default(1024), params.Range(256, 2048), params.MultipleOf(64), params.Describe("Resolution for face crop processing")),
		params.Float("face_detection_confidence", params.Default(0.5), params.Range(0.1, 1), params.Describe("Face detection confidence threshold")),
		params.Float("face_denoise", params.Default(0.3), params.Range(0, 1), params.Describe("Denoising strength for face enhancement")),
		params.Int("face_steps", params.Default(8), params.Range(1, 100), params.Describe("Number of sampling steps for face enhancement")),
		params.Float("face_cfg", params.Default(1.5), params.Range(1, 20), params.Describe("CFG scale for face enhancement")),
		params.Int("face_dilation", params.Default(10), params.Range(0, 50), params.Describe("Bbox dilation for better face coverage")),
		params.Float("face_crop_factor", params.Default(1.5), params.Range(1, 5), params.Describe("Crop factor around detected face")),

		params.Float("sam_threshold", params.Default(0.93), params.Range(0, 1), params.Describe("SAM segmentation threshold")),
		params.Int("sam_dilation", params.Default(0), params.Range(0, 50), params.Describe("SAM mask dilation")),
		params.Int("feather", params.Default(20), params.Range(0, 100), params.Describe("Edge feathering for smooth blending")),
		params.Bool("noise_mask", params.Default(true), params.Describe("Apply noise only to masked area")),
		params.Bool("force_inpaint", params.Default(true), params.Describe("Force inpainting mode")),
	)

	loaders := required("loaders", func(c *chain) {
		ckpt := c.add("CheckpointLoaderSimple", "Load Checkpoint", ir.Inputs{"ckpt_name": c.v("checkpoint_name")})
		c.bind(wireModel, ir.Out(ckpt, 0))
		c.bind(wireClip, ir.Out(ckpt, 1))
		c.bind(wireVAE, ir.Out(ckpt, 2))
	})

	externalVAE := optional("vae", pipeline.NonEmpty("vae_name"), func(c *chain) {
		id := c.add("VAELoader", "Load VAE", ir.Inputs{"vae_name": c.v("vae_name")})
		c.bind(wireVAE, ir.Out(id, 0))
	})

	encode := required("encode", func(c *chain) {
		clip := c.wire(wireClip)
		pos := c.add("CLIPTextEncode", "CLIP Text Encode (Positive Prompt)", ir.Inputs{"text": c.v("prompt"), "clip": clip})
		neg := c.add("CLIPTextEncode", "CLIP Text Encode (Negative Prompt)", ir.Inputs{"text": c.v("negative_prompt"), "clip": clip})
		latent := c.add("SDXL Empty Latent Image (rgthree)", "SDXL Empty Latent Image", ir.Inputs{
			"dimensions":  ir.String(fmt.Sprintf("%d x %d", c.p.Int("width"), c.p.Int("height"))),
			"clip_width":  c.v("width"),
			"clip_height": c.v("height"),
			"batch_size":  ir.Int(1),
		})
		c.bind(wirePositive, ir.Out(pos, 0))
		c.bind(wireNegative, ir.Out(neg, 0))
		c.bind(wireLatent, ir.Out(latent, 0))
	})

	sample := required("sample", func(c *chain) {
		in := c.sampling("steps", "cfg_scale")
		in["seed_mode"] = ir.String("fixed")
		in["denoise"] = ir.Int(1)
		in["model"] = c.wire(wireModel)
		in["positive"] = c.wire(wirePositive)
		in["negative"] = c.wire(wireNegative)
		in["latent_image"] = c.wire(wireLatent)

		k := c.add("KSampler", "KSampler (Base)", in)
		c.decode("VAE Decode (Base)", ir.Out(k, 0))
	})

	hires := optional("hires_fix", pipeline.Flag("hires_enabled"), func(c *chain) {
		vaeRef := c.wire(wireVAE)
		fix := c.preset("hires_fix", "Hires Fix", ir.Inputs{
			"upscale_model":  c.v("hires_upscale_model"),
			"rescale_method": c.v("hires_upscale_method"),
			"percent":        c.v("hires_scale_percent"),
			"image":          c.head(),
			"vae":            vaeRef,
		})

		in := c.sampling("hires_steps", "hires_cfg")
		in["denoise"] = c.v("hires_denoise")
		in["model"] = c.wire(wireModel)
		in["positive"] = c.wire(wirePositive)
		in["negative"] = c.wire(wireNegative)
		in["latent_image"] = ir.Out(fix, 2)
		in["optional_vae"] = vaeRef
		k := c.preset("efficient_sampler", "KSampler (Hires)", in)

		c.bind(wireModel, ir.Out(k, 0))
		c.setHead(ir.Out(k, 5))
	})

	face := optional("face_detail", pipeline.Flag("face_enhancement_enabled"), func(c *chain) {
		sam := c.preset("sam_loader", "SAM Loader", ir.Inputs{"model_name": c.v("face_sam_model")})
		det := c.add("UltralyticsDetectorProvider", "Face Detector Provider", ir.Inputs{"model_name": c.v("face_detection_model")})
		pipe := c.preset("to_detailer_pipe", "To Detailer Pipe", ir.Inputs{
			"model":             c.wire(wireModel),
			"clip":              c.wire(wireClip),
			"vae":               c.wire(wireVAE),
			"positive":          c.wire(wirePositive),
			"negative":          c.wire(wireNegative),
			"bbox_detector":     ir.Out(det, 0),
			"sam_model_opt":     ir.Out(sam, 0),
			"segm_detector_opt": ir.Out(det, 1),
		})

		in := ir.Merge(c.sampling("face_steps", "face_cfg"), ir.Inputs{
			"guide_size":       c.v("face_resolution"),
			"denoise":          c.v("face_denoise"),
			"feather":          c.v("feather"),
			"noise_mask":       c.v("noise_mask"),
			"force_inpaint":    c.v("force_inpaint"),
			"bbox_threshold":   c.v("face_detection_confidence"),
			"bbox_dilation":    c.v("face_dilation"),
			"bbox_crop_factor": c.v("face_crop_factor"),
			"sam_dilation":     c.v("sam_dilation"),
			"sam_threshold":    c.v("sam_threshold"),
			"image":            c.head(),
			"detailer_pipe":    ir.Out(pipe, 0),
		})
		id := c.preset("face_detailer_pipe", "Face Detailer", in)
		c.setHead(ir.Out(id, 0))
	})

	return &workflow.Descriptor{
		Name:        SDXLAuthenticPortraits,
		Summary:     "SDXL Authentic Portraits",
		Description: "SDXL workflow with three-pass processing: base generation, hires refinement and face detailing with YOLOv11 detection",
		Spec:        spec,
		Stages:      []pipeline.Stage{loaders, externalVAE, encode, sample, hires, face},
		Terminal:    save("SDXL_Authentic"),
		Catalog:     catalog.Default(),
	}
}
