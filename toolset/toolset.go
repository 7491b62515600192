package toolset

/*

	The toolset exposes every composition operation as an MCP tool.
	An agent picks the tool and its arguments, the Store does the work,
	and the tool answers with the operation Result encoded as JSON.

*/

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	Mc "github.com/maroda/ostinato/compose"
	Ms "github.com/maroda/ostinato/server"
	Mt "github.com/maroda/ostinato/types"
)

// Version is set at build time via ldflags.
var Version = "dev"

type Toolset struct {
	Store *Ms.Store
}

func New(store *Ms.Store) *Toolset {
	return &Toolset{Store: store}
}

// Server registers every tool on a new MCP server.
func (ts *Toolset) Server() *server.MCPServer {
	s := server.NewMCPServer(
		"ostinato",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	s.AddTools(ts.Tools()...)
	return s
}

// ServeStdio blocks serving the tools over stdin and stdout.
func (ts *Toolset) ServeStdio() error {
	return server.ServeStdio(ts.Server())
}

// Tools pairs each tool definition with its handler.
func (ts *Toolset) Tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: createPatternTool(), Handler: ts.createPattern},
		{Tool: deletePatternTool(), Handler: ts.deletePattern},
		{Tool: deleteAllPatternsTool(), Handler: ts.deleteAllPatterns},
		{Tool: duplicatePatternTool(), Handler: ts.duplicatePattern},
		{Tool: updatePatternPropertiesTool(), Handler: ts.updatePatternProperties},
		{Tool: addTrackToPatternTool(), Handler: ts.addTrackToPattern},
		{Tool: removeTrackFromPatternTool(), Handler: ts.removeTrackFromPattern},
		{Tool: updateTrackPropertiesTool(), Handler: ts.updateTrackProperties},
		{Tool: updateTimelineTool(), Handler: ts.updateTimeline},
		{Tool: addPatternToTimelineTool(), Handler: ts.addPatternToTimeline},
		{Tool: removePatternFromTimelineTool(), Handler: ts.removePatternFromTimeline},
		{Tool: clearTimelineTool(), Handler: ts.clearTimeline},
		{Tool: getCompositionTool(), Handler: ts.getComposition},
		{Tool: resetCompositionTool(), Handler: ts.resetComposition},
	}
}

const instructions = `Ostinato composes looping instrumental music.
Create patterns, add piano, bass and drums tracks to them, then arrange the
patterns on the timeline. Call getComposition to see the current state.
A result with status "unchanged" means the request was already satisfied.`

var instrumentEnum = []string{string(Mt.Piano), string(Mt.Bass), string(Mt.Drums)}

func createPatternTool() mcp.Tool {
	return mcp.NewTool("createPattern",
		mcp.WithDescription("Create an empty pattern (a section such as intro, verse or chorus)."),
		mcp.WithString("patternName",
			mcp.Description("Pattern name like intro, verse, chorus - auto-generates if not provided")),
		mcp.WithNumber("tempo",
			mcp.Description("BPM tempo - uses the composition tempo if not provided"),
			mcp.Min(Ms.MinTempo), mcp.Max(Ms.MaxTempo)),
		mcp.WithNumber("length",
			mcp.Description("Pattern length in measures, default is 4"),
			mcp.Min(Ms.MinLength), mcp.Max(Ms.MaxLength)),
	)
}

func deletePatternTool() mcp.Tool {
	return mcp.NewTool("deletePattern",
		mcp.WithDescription("Delete a pattern and every timeline entry that uses it."),
		mcp.WithString("patternName", mcp.Required(), mcp.Description("Name of the pattern to delete")),
	)
}

func deleteAllPatternsTool() mcp.Tool {
	return mcp.NewTool("deleteAllPatterns",
		mcp.WithDescription("Delete every pattern and clear the timeline."),
	)
}

func duplicatePatternTool() mcp.Tool {
	return mcp.NewTool("duplicatePattern",
		mcp.WithDescription("Copy a pattern with all of its tracks under a new name."),
		mcp.WithString("sourcePatternName", mcp.Required(), mcp.Description("Name of pattern to copy")),
		mcp.WithString("newPatternName", mcp.Required(), mcp.Description("Name for the new duplicate pattern")),
	)
}

func updatePatternPropertiesTool() mcp.Tool {
	return mcp.NewTool("updatePatternProperties",
		mcp.WithDescription("Change the tempo and/or length of a pattern."),
		mcp.WithString("patternName", mcp.Required(), mcp.Description("Name of the pattern to update")),
		mcp.WithNumber("tempo", mcp.Description("New tempo in BPM"), mcp.Min(Ms.MinTempo), mcp.Max(Ms.MaxTempo)),
		mcp.WithNumber("length", mcp.Description("New length in measures"), mcp.Min(Ms.MinLength), mcp.Max(Ms.MaxLength)),
	)
}

func addTrackToPatternTool() mcp.Tool {
	return mcp.NewTool("addTrackToPattern",
		mcp.WithDescription("Generate a piano, bass or drums track in a pattern that does not have that instrument yet."),
		mcp.WithString("patternName", mcp.Required(), mcp.Description("Name of the pattern to add instrument to")),
		mcp.WithString("instrument", mcp.Required(), mcp.Enum(instrumentEnum...),
			mcp.Description("Instrument: piano, bass, or drums")),
		mcp.WithString("mood", mcp.Enum(Mc.MoodNames()...), mcp.Description("Musical mood, default is chill")),
		mcp.WithString("rhythm", mcp.Enum(Mc.RhythmNames()...), mcp.Description("Rhythm density, default is simple")),
		mcp.WithString("trackType", mcp.Enum(string(Mt.PianoChords), string(Mt.PianoMelody)),
			mcp.Description("Piano only: chords or melody, default is chords")),
		mcp.WithString("bassStyle", mcp.Enum(Mc.BassStyleNames()...), mcp.Description("Bass only, default is root")),
	)
}

func removeTrackFromPatternTool() mcp.Tool {
	return mcp.NewTool("removeTrackFromPattern",
		mcp.WithDescription("Remove one instrument from a pattern."),
		mcp.WithString("patternName", mcp.Required(), mcp.Description("Name of the pattern")),
		mcp.WithString("instrument", mcp.Required(), mcp.Enum(instrumentEnum...), mcp.Description("Instrument to remove")),
	)
}

func updateTrackPropertiesTool() mcp.Tool {
	return mcp.NewTool("updateTrackProperties",
		mcp.WithDescription("Change the volume or mute state of a track."),
		mcp.WithString("patternName", mcp.Required(), mcp.Description("Name of the pattern")),
		mcp.WithString("instrument", mcp.Required(), mcp.Enum(instrumentEnum...), mcp.Description("Instrument to update")),
		mcp.WithNumber("volume", mcp.Description("Volume level from 0 to 1, use 0 to mute"), mcp.Min(0), mcp.Max(1)),
		mcp.WithBoolean("muted", mcp.Description("Mute the track without changing its volume")),
	)
}

func updateTimelineTool() mcp.Tool {
	return mcp.NewTool("updateTimeline",
		mcp.WithDescription("Replace the arrangement with an ordered list of patterns."),
		mcp.WithArray("timeline", mcp.Required(),
			mcp.Description("Ordered array of pattern IDs, patterns can repeat"),
			mcp.Items(map[string]any{"type": "string"})),
	)
}

func addPatternToTimelineTool() mcp.Tool {
	return mcp.NewTool("addPatternToTimeline",
		mcp.WithDescription("Insert a pattern into the timeline."),
		mcp.WithString("patternName", mcp.Required(), mcp.Description("Name of pattern to add")),
		mcp.WithNumber("position", mcp.Description("Position index - if not provided, appends to end")),
	)
}

func removePatternFromTimelineTool() mcp.Tool {
	return mcp.NewTool("removePatternFromTimeline",
		mcp.WithDescription("Remove one timeline entry by position, or the first entry with a name."),
		mcp.WithString("patternName", mcp.Description("Pattern name to remove first occurrence")),
		mcp.WithNumber("position", mcp.Description("Position index to remove")),
	)
}

func clearTimelineTool() mcp.Tool {
	return mcp.NewTool("clearTimeline",
		mcp.WithDescription("Empty the timeline and keep every pattern."),
	)
}

func getCompositionTool() mcp.Tool {
	return mcp.NewTool("getComposition",
		mcp.WithDescription("Summarize the timeline and every pattern."),
	)
}

func resetCompositionTool() mcp.Tool {
	return mcp.NewTool("resetComposition",
		mcp.WithDescription("Start a new empty session. Everything is discarded."),
	)
}

// respond encodes an operation result as the tool answer.
func respond(res Ms.Result) (*mcp.CallToolResult, error) {
	body, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return mcp.NewToolResultText(string(body)), nil
}

func (ts *Toolset) createPattern(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req)
	in := Ms.CreatePatternInput{
		Name:   a.optString("patternName"),
		Tempo:  a.optFloat("tempo"),
		Length: a.optInt("length"),
	}
	if a.err != nil {
		return mcp.NewToolResultError(a.err.Error()), nil
	}
	return respond(ts.Store.CreatePattern(ctx, in))
}

func (ts *Toolset) deletePattern(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req)
	name := a.requireString("patternName")
	if a.err != nil {
		return mcp.NewToolResultError(a.err.Error()), nil
	}
	return respond(ts.Store.DeletePattern(ctx, name))
}

func (ts *Toolset) deleteAllPatterns(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respond(ts.Store.DeleteAllPatterns(ctx))
}

func (ts *Toolset) duplicatePattern(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req)
	source := a.requireString("sourcePatternName")
	name := a.requireString("newPatternName")
	if a.err != nil {
		return mcp.NewToolResultError(a.err.Error()), nil
	}
	return respond(ts.Store.DuplicatePattern(ctx, source, name))
}

func (ts *Toolset) updatePatternProperties(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req)
	name := a.requireString("patternName")
	props := Ms.PatternProperties{
		Tempo:  a.optFloat("tempo"),
		Length: a.optInt("length"),
	}
	if a.err != nil {
		return mcp.NewToolResultError(a.err.Error()), nil
	}
	return respond(ts.Store.UpdatePatternProperties(ctx, name, props))
}

func (ts *Toolset) addTrackToPattern(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req)
	in := Ms.AddTrackInput{
		PatternName: a.requireString("patternName"),
		Instrument:  Mt.Instrument(a.requireString("instrument")),
		Mood:        Mt.Mood(a.optString("mood")),
		Rhythm:      Mt.Rhythm(a.optString("rhythm")),
		TrackType:   Mt.TrackType(a.optString("trackType")),
		BassStyle:   Mt.BassStyle(a.optString("bassStyle")),
	}
	if a.err != nil {
		return mcp.NewToolResultError(a.err.Error()), nil
	}
	return respond(ts.Store.AddTrackToPattern(ctx, in))
}

func (ts *Toolset) removeTrackFromPattern(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req)
	name := a.requireString("patternName")
	instrument := Mt.Instrument(a.requireString("instrument"))
	if a.err != nil {
		return mcp.NewToolResultError(a.err.Error()), nil
	}
	return respond(ts.Store.RemoveTrackFromPattern(ctx, name, instrument))
}

func (ts *Toolset) updateTrackProperties(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req)
	name := a.requireString("patternName")
	instrument := Mt.Instrument(a.requireString("instrument"))
	props := Ms.TrackProperties{
		Volume: a.optFloat("volume"),
		Muted:  a.optBool("muted"),
	}
	if a.err != nil {
		return mcp.NewToolResultError(a.err.Error()), nil
	}
	return respond(ts.Store.UpdateTrackProperties(ctx, name, instrument, props))
}

func (ts *Toolset) updateTimeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req)
	ids := a.stringList("timeline")
	if a.err != nil {
		return mcp.NewToolResultError(a.err.Error()), nil
	}
	return respond(ts.Store.UpdateTimeline(ctx, ids))
}

func (ts *Toolset) addPatternToTimeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req)
	name := a.requireString("patternName")
	position := a.optInt("position")
	if a.err != nil {
		return mcp.NewToolResultError(a.err.Error()), nil
	}
	return respond(ts.Store.AddPatternToTimeline(ctx, name, position))
}

func (ts *Toolset) removePatternFromTimeline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	a := args(req)
	position := a.optInt("position")
	name := a.optString("patternName")
	if a.err != nil {
		return mcp.NewToolResultError(a.err.Error()), nil
	}
	return respond(ts.Store.RemovePatternFromTimeline(ctx, position, name))
}

func (ts *Toolset) clearTimeline(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respond(ts.Store.ClearTimeline(ctx))
}

func (ts *Toolset) getComposition(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respond(ts.Store.GetComposition(ctx))
}

func (ts *Toolset) resetComposition(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return respond(ts.Store.ResetComposition(ctx))
}
