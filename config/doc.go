// Package config loads webvideo settings with viper.
//
// A file (YAML, JSON or TOML, chosen by extension) and WEBVIDEO_* environment
// variables are merged, environment winning. Keys nest with "." in files
// and "_" in the environment, so options.output_path is also
// WEBVIDEO_OPTIONS_OUTPUT_PATH.
//
//	options:
//	  output_files: "mp4/h.264, webm/vp9/opus@6"
//	  public_path: https://cdn.example.com/media
//	cache:
//	  backend: s3
//	  s3:
//	    bucket: media-cache
//	    secret_access_key: secretref:env:CACHE_SECRET
//	encoder:
//	  max_concurrent: 2
//	  timeout: 10m
//
// Only keys present in the file or environment enter the static option
// layer; everything else falls through to the built-in defaults.
package config
