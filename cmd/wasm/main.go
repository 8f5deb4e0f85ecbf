//go:build js && wasm

package main

import (
	"encoding/json"
	"syscall/js"

	"sqlseg/internal/segment"
)

var seg *segment.Segmenter

func init() {
	seg = segment.New(segment.Options{})
}

func main() {
	c := make(chan struct{})

	js.Global().Set("sqlsegSegment", js.FuncOf(segmentScript))
	js.Global().Set("sqlsegClassify", js.FuncOf(classifyBlock))
	js.Global().Set("sqlsegConfigure", js.FuncOf(configure))

	<-c
}

func segmentScript(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: sqlsegSegment(script)")
	}

	script := args[0].String()
	blocks := seg.Segment(script)

	output := make([]map[string]interface{}, 0, len(blocks))
	for _, b := range blocks {
		output = append(output, map[string]interface{}{
			"seq":       b.Seq,
			"type":      string(b.Type),
			"chars":     b.Chars,
			"lines":     b.Lines,
			"firstLine": b.FirstLine(80),
			"text":      b.Text,
		})
	}

	return makeResult(map[string]interface{}{
		"blocks": output,
		"count":  len(blocks),
		"budget": seg.Budget(),
	})
}

func classifyBlock(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: sqlsegClassify(text)")
	}

	return makeResult(map[string]interface{}{
		"type": string(segment.Classify(args[0].String())),
	})
}

func configure(this js.Value, args []js.Value) interface{} {
	if len(args) < 1 {
		return makeError("usage: sqlsegConfigure(maxChunkSize, [smallFragment], [mergeCeiling])")
	}

	opts := segment.Options{MaxChunkSize: args[0].Int()}
	if len(args) > 1 {
		opts.SmallFragment = args[1].Int()
	}
	if len(args) > 2 {
		opts.MergeCeiling = args[2].Int()
	}
	seg = segment.New(opts)

	return makeResult(map[string]interface{}{
		"success": true,
		"budget":  seg.Budget(),
	})
}

func makeError(msg string) interface{} {
	result, _ := json.Marshal(map[string]interface{}{
		"error": msg,
	})
	return string(result)
}

func makeResult(data map[string]interface{}) interface{} {
	result, _ := json.Marshal(data)
	return string(result)
}
