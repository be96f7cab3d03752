package config

// Merge layers override onto base and returns the result. Neither argument
// is mutated.
//
// The rules mirror the settings-file semantics: a scalar present in the
// override simply overwrites, even when it is false, zero or "", list
// values are replaced wholesale rather than concatenated, and nested
// objects merge key by key. The merge is written as an explicit
// field-by-field reducer over the schema so that a shape mismatch is a
// compile error, not a silent runtime surprise.
func Merge(base, override Config) Config {
	out := base

	out.Type = mergeList(out.Type, override.Type)
	out.OutputDirectory = mergeString(out.OutputDirectory, override.OutputDirectory)
	out.OutputDirectoryRelativePathFile = mergeBool(out.OutputDirectoryRelativePathFile, override.OutputDirectoryRelativePathFile)

	out.Styles = mergeList(out.Styles, override.Styles)
	out.StylesRelativePathFile = mergeBool(out.StylesRelativePathFile, override.StylesRelativePathFile)
	out.TypeStyles = mergeStyleMap(out.TypeStyles, override.TypeStyles)
	out.IncludeDefaultStyles = mergeBool(out.IncludeDefaultStyles, override.IncludeDefaultStyles)
	out.Highlight = mergeBool(out.Highlight, override.Highlight)
	out.HighlightStyle = mergeString(out.HighlightStyle, override.HighlightStyle)

	out.Breaks = mergeBool(out.Breaks, override.Breaks)
	out.Emoji = mergeBool(out.Emoji, override.Emoji)
	out.EmojiPath = mergeString(out.EmojiPath, override.EmojiPath)
	out.EnableHTML = mergeBool(out.EnableHTML, override.EnableHTML)
	out.MarkdownItInclude = mergeBool(out.MarkdownItInclude, override.MarkdownItInclude)
	out.IncludeDir = mergeString(out.IncludeDir, override.IncludeDir)
	out.MarkdownItContainer = mergeBool(out.MarkdownItContainer, override.MarkdownItContainer)

	out.MermaidServer = mergeString(out.MermaidServer, override.MermaidServer)
	out.PlantumlServer = mergeString(out.PlantumlServer, override.PlantumlServer)
	out.PlantumlOpenMarker = mergeString(out.PlantumlOpenMarker, override.PlantumlOpenMarker)
	out.PlantumlCloseMarker = mergeString(out.PlantumlCloseMarker, override.PlantumlCloseMarker)

	out.ExecutablePath = mergeString(out.ExecutablePath, override.ExecutablePath)
	out.Debug = mergeBool(out.Debug, override.Debug)

	out.Scale = mergeFloat(out.Scale, override.Scale)
	out.DisplayHeaderFooter = mergeBool(out.DisplayHeaderFooter, override.DisplayHeaderFooter)
	out.HeaderTemplate = mergeString(out.HeaderTemplate, override.HeaderTemplate)
	out.FooterTemplate = mergeString(out.FooterTemplate, override.FooterTemplate)
	out.PrintBackground = mergeBool(out.PrintBackground, override.PrintBackground)
	out.Orientation = mergeString(out.Orientation, override.Orientation)
	out.PageRanges = mergeString(out.PageRanges, override.PageRanges)
	out.Format = mergeString(out.Format, override.Format)
	out.Width = mergeString(out.Width, override.Width)
	out.Height = mergeString(out.Height, override.Height)
	out.Margin = mergeMargin(out.Margin, override.Margin)

	out.Quality = mergeInt(out.Quality, override.Quality)
	out.Clip = mergeClip(out.Clip, override.Clip)
	out.OmitBackground = mergeBool(out.OmitBackground, override.OmitBackground)

	return out
}

func mergeMargin(base, override MarginConfig) MarginConfig {
	return MarginConfig{
		Top:    mergeString(base.Top, override.Top),
		Right:  mergeString(base.Right, override.Right),
		Bottom: mergeString(base.Bottom, override.Bottom),
		Left:   mergeString(base.Left, override.Left),
	}
}

func mergeClip(base, override ClipConfig) ClipConfig {
	return ClipConfig{
		X:      mergeFloat(base.X, override.X),
		Y:      mergeFloat(base.Y, override.Y),
		Width:  mergeFloat(base.Width, override.Width),
		Height: mergeFloat(base.Height, override.Height),
	}
}

// mergeStyleMap merges per-type style lists key by key. A list supplied by
// the override replaces the base list for that type entirely.
func mergeStyleMap(base, override map[string][]string) map[string][]string {
	if len(base) == 0 && len(override) == 0 {
		return base
	}
	out := make(map[string][]string, len(base)+len(override))
	for k, v := range base {
		out[k] = cloneList(v)
	}
	for k, v := range override {
		out[k] = cloneList(v)
	}
	return out
}

func mergeList(base, override []string) []string {
	if override == nil {
		return cloneList(base)
	}
	return cloneList(override)
}

func cloneList(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

func mergeString(base, override *string) *string {
	if override != nil {
		v := *override
		return &v
	}
	return base
}

func mergeBool(base, override *bool) *bool {
	if override != nil {
		v := *override
		return &v
	}
	return base
}

func mergeFloat(base, override *float64) *float64 {
	if override != nil {
		v := *override
		return &v
	}
	return base
}

func mergeInt(base, override *int) *int {
	if override != nil {
		v := *override
		return &v
	}
	return base
}
