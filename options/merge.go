package options

import "slices"

// Merge layers static and override on top of defaults. Each scalar takes the
// value from the highest layer that defines it. The output list is never
// merged element-wise: the first non-empty list among override, static and
// defaults wins whole. An empty PublicPath falls back to the merged
// OutputPath.
func Merge(defaults Options, static, override Layer) (Options, error) {
	out := defaults
	out.OutputFiles = slices.Clone(defaults.OutputFiles)

	for _, l := range []Layer{static, override} {
		if len(l.OutputFiles) > 0 {
			out.OutputFiles = slices.Clone(l.OutputFiles)
		}
		setString(&out.FileNameTemplate, l.FileNameTemplate)
		setString(&out.OutputPath, l.OutputPath)
		setString(&out.Size, l.Size)
		setString(&out.PublicPath, l.PublicPath)
		setBool(&out.Mute, l.Mute)
		setBool(&out.Cache, l.Cache)
		setBool(&out.ESModule, l.ESModule)
	}

	if out.PublicPath == "" {
		out.PublicPath = out.OutputPath
	}
	if len(out.OutputFiles) == 0 {
		return Options{}, ErrEmptyOutputList
	}
	return out, nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
