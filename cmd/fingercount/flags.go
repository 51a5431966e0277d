package main

import (
	"flag"

	"github.com/ayusman/fingercount/internal/capture"
	"github.com/ayusman/fingercount/internal/fingers"
	"github.com/ayusman/fingercount/internal/segment"
)

var (
	cameraID = flag.Int("camera", 0, "video device index")
	fps      = flag.Int("fps", capture.DefaultFPS, "capture frame rate")
	addr     = flag.String("addr", ":8080", "HTTP listen address")
	dbPath   = flag.String("db", "", "database path (default ~/.fingercount/fingercount.db)")
	webDir   = flag.String("web", "", "directory of static files to serve")
	record   = flag.Bool("record", false, "record every evaluated frame in a session")
	noTray   = flag.Bool("no-tray", false, "run without the system tray")
	still    = flag.String("image", "", "count fingers in a single image file and exit")
	debug    = flag.Bool("debug", false, "log per-frame diagnostics")

	clusterRadius = flag.Float64("cluster-radius", fingers.DefaultClusterRadius,
		"pixel radius within which hull points merge")
	angleThreshold = flag.Float64("angle", fingers.DefaultAngleThresholdDegrees,
		"maximum fingertip angle in degrees")

	history      = flag.Int("history", segment.DefaultConfig().History, "background model history in frames")
	varThreshold = flag.Float64("var-threshold", segment.DefaultConfig().VarThreshold,
		"background model variance threshold")
	blurSize  = flag.Int("blur", segment.DefaultConfig().BlurSize, "mask blur kernel size")
	threshold = flag.Float64("threshold", float64(segment.DefaultConfig().Threshold), "mask binarisation threshold")
	invert    = flag.Bool("invert", false, "treat dark regions of the mask as the hand")

	stillBlur = flag.Float64("still-blur", float64(segment.DefaultStillConfig().BlurSigma),
		"gaussian blur sigma for -image, 0 disables blurring")
	stillThreshold = flag.Float64("still-threshold", float64(segment.DefaultStillConfig().ThresholdPercent),
		"brightness percentage (0-100) above which an -image pixel is hand")
)

// counterConfig returns base with any counter flag given on the command line applied.
func counterConfig(base fingers.Config) fingers.Config {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "cluster-radius":
			base.ClusterRadius = *clusterRadius
		case "angle":
			base.AngleThresholdDegrees = *angleThreshold
		}
	})
	return base
}

func stillConfig() segment.StillConfig {
	return segment.StillConfig{
		BlurSigma:        float32(*stillBlur),
		ThresholdPercent: float32(*stillThreshold),
		Invert:           *invert,
	}
}

func segmentConfig() segment.Config {
	return segment.Config{
		History:      *history,
		VarThreshold: *varThreshold,
		BlurSize:     *blurSize,
		Threshold:    float32(*threshold),
		Invert:       *invert,
	}
}
