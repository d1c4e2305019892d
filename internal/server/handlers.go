package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"image"

	"github.com/ironsheep/promptvision/internal/engine"
	"github.com/ironsheep/promptvision/internal/imaging"
	"github.com/ironsheep/promptvision/internal/params"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_prompt").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var call ToolCallParams
	if err := json.Unmarshal(req.Params, &call); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(ctx, call.Name, call.Arguments)
	if err != nil {
		s.logger.Debug().Err(err).Str("tool", call.Name).Msg("tool failed")
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Checks that an image is loaded where one is needed
//  3. Calls the engine
//  4. Returns the result or error
func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image State
	case "image_load":
		return s.handleImageLoad(args)
	case "image_info":
		return s.engine.Info(), nil
	case "image_params":
		return paramsResult{Params: s.engine.Params().Map()}, nil

	// Adjustments
	case "image_adjust":
		return s.handleImageAdjust(args)
	case "image_adjust_batch":
		return s.handleImageAdjustBatch(args)
	case "image_prompt":
		return s.handleImagePrompt(args)
	case "image_crop_ratio":
		return s.handleImageCropRatio(args)

	// History
	case "image_undo":
		return s.handleHistory(s.engine.Undo)
	case "image_redo":
		return s.handleHistory(s.engine.Redo)

	// Output
	case "image_save":
		return s.handleImageSave(args)
	case "image_preview":
		return s.handleImagePreview(args)
	case "image_stats":
		return s.engine.Stats()

	// Presets
	case "preset_save":
		return s.handlePresetSave(ctx, args)
	case "preset_apply":
		return s.handlePresetApply(ctx, args)
	case "preset_list":
		return s.handlePresetList(ctx)
	case "preset_delete":
		return s.handlePresetDelete(ctx, args)

	// Activity
	case "activity_log":
		return s.handleActivityLog(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeArgs unmarshals tool arguments. Missing arguments decode as {}.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(args) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("invalid arguments: %w", err)
	}
	return nil
}

func (s *Server) requireImage() error {
	if !s.engine.Loaded() {
		return engine.ErrNoImage
	}
	return nil
}

// changeResult reports whether a mutating tool changed anything.
type changeResult struct {
	Changed bool               `json:"changed"`
	Params  map[string]float64 `json:"params"`
}

type paramsResult struct {
	Params map[string]float64 `json:"params"`
}

func (s *Server) changed(ok bool) changeResult {
	return changeResult{Changed: ok, Params: s.engine.Params().Map()}
}

// === Image State Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	if err := s.engine.LoadImage(a.Path); err != nil {
		return nil, err
	}
	return s.engine.Info(), nil
}

// === Adjustment Handlers ===

type imageAdjustArgs struct {
	Param string   `json:"param"`
	Value *float64 `json:"value"`
}

func (s *Server) handleImageAdjust(args json.RawMessage) (interface{}, error) {
	var a imageAdjustArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.requireImage(); err != nil {
		return nil, err
	}
	if _, ok := params.ParseName(a.Param); !ok {
		return nil, fmt.Errorf("unknown parameter: %q", a.Param)
	}
	if a.Value == nil {
		return nil, errors.New("value is required")
	}
	return s.changed(s.engine.UpdateParameter(a.Param, *a.Value)), nil
}

func (s *Server) handleImageAdjustBatch(args json.RawMessage) (interface{}, error) {
	var a map[string]float64
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.requireImage(); err != nil {
		return nil, err
	}
	return s.changed(s.engine.UpdateParametersBatch(a)), nil
}

type imagePromptArgs struct {
	Text string `json:"text"`
}

type promptResult struct {
	Changed bool               `json:"changed"`
	Source  string             `json:"source"`
	Touched []string           `json:"touched"`
	Params  map[string]float64 `json:"params"`
}

func (s *Server) handleImagePrompt(args json.RawMessage) (interface{}, error) {
	var a imagePromptArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.requireImage(); err != nil {
		return nil, err
	}
	result, ok := s.engine.ApplyPrompt(a.Text)
	touched := result.TouchedNames()
	if touched == nil {
		touched = []string{}
	}
	return promptResult{
		Changed: ok,
		Source:  result.Source.String(),
		Touched: touched,
		Params:  s.engine.Params().Map(),
	}, nil
}

type imageCropRatioArgs struct {
	Ratio string `json:"ratio"`
}

type cropResult struct {
	Changed bool   `json:"changed"`
	Crop    string `json:"crop"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
}

func (s *Server) handleImageCropRatio(args json.RawMessage) (interface{}, error) {
	var a imageCropRatioArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.requireImage(); err != nil {
		return nil, err
	}
	ratio, err := imaging.ParseRatio(a.Ratio)
	if err != nil {
		return nil, err
	}
	ok := s.engine.CropToRatio(ratio)
	info := s.engine.Info()
	return cropResult{Changed: ok, Crop: info.Crop, Width: info.Width, Height: info.Height}, nil
}

// === History Handlers ===

func (s *Server) handleHistory(step func() bool) (interface{}, error) {
	if err := s.requireImage(); err != nil {
		return nil, err
	}
	return s.changed(step()), nil
}

// === Output Handlers ===

type imageSaveArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageSave(args json.RawMessage) (interface{}, error) {
	var a imageSaveArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, errors.New("path is required")
	}
	written, err := s.engine.Save(a.Path)
	if err != nil {
		return nil, err
	}
	return map[string]string{"path": written}, nil
}

// previewResult carries the rendered image as base64-encoded PNG.
type previewResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

type imagePreviewArgs struct {
	Guide      string `json:"guide"`
	GuideColor string `json:"guide_color"`
}

func (s *Server) handleImagePreview(args json.RawMessage) (interface{}, error) {
	var a imagePreviewArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.requireImage(); err != nil {
		return nil, err
	}
	guide, err := imaging.ParseGuide(a.Guide)
	if err != nil {
		return nil, err
	}

	var data []byte
	if guide == imaging.GuideNone {
		data, err = s.engine.Preview()
	} else {
		var overlay image.Image
		if overlay, err = imaging.DrawGuide(s.engine.Rendered(), guide, a.GuideColor); err == nil {
			data, err = imaging.EncodePNG(overlay)
		}
	}
	if err != nil {
		return nil, err
	}

	b := s.engine.Rendered().Bounds()
	return previewResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(data),
		MimeType:    "image/png",
	}, nil
}

// === Preset Handlers ===

type presetArgs struct {
	Name string `json:"name"`
}

func (s *Server) handlePresetSave(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a presetArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if err := s.engine.SavePreset(ctx, a.Name); err != nil {
		return nil, err
	}
	return map[string]interface{}{"saved": a.Name, "params": s.engine.Params().Map()}, nil
}

func (s *Server) handlePresetApply(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a presetArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	ok, err := s.engine.ApplyPreset(ctx, a.Name)
	if err != nil {
		return nil, err
	}
	return s.changed(ok), nil
}

func (s *Server) handlePresetList(ctx context.Context) (interface{}, error) {
	names, err := s.engine.ListPresets(ctx)
	if err != nil {
		return nil, err
	}
	return map[string][]string{"presets": names}, nil
}

func (s *Server) handlePresetDelete(ctx context.Context, args json.RawMessage) (interface{}, error) {
	var a presetArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	deleted, err := s.engine.DeletePreset(ctx, a.Name)
	if err != nil {
		return nil, err
	}
	return map[string]bool{"deleted": deleted}, nil
}

// === Activity Handlers ===

type activityLogArgs struct {
	Limit int `json:"limit"`
}

type activityLogResult struct {
	Entries []string `json:"entries"`
}

func (s *Server) handleActivityLog(args json.RawMessage) (interface{}, error) {
	var a activityLogArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	entries := s.engine.ActivityLog()
	if a.Limit > 0 && len(entries) > a.Limit {
		entries = entries[:a.Limit]
	}
	lines := make([]string, len(entries))
	for i, e := range entries {
		lines[i] = e.String()
	}
	return activityLogResult{Entries: lines}, nil
}
