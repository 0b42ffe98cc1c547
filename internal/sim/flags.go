package sim

import "flag"

// Set implements flag.Value.
func (m *MotionMode) Set(s string) error {
	v, err := ParseMotionMode(s)
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// Bind attaches the configuration to the provided FlagSet. Current field
// values become the flag defaults, so apply environment overrides first.
func (c *Config) Bind(fs *flag.FlagSet) {
	fs.StringVar(&c.ScenePath, "scene", c.ScenePath, "glTF scene to load")
	fs.Uint64Var(&c.Seed, "seed", c.Seed, "seed for rain, pedestrians and clouds")
	fs.Var(&c.Motion, "motion", "per-frame rate scaling: time or frame")
	fs.Float64Var(&c.SceneExtent, "extent", c.SceneExtent, "fallback city width when the scene has no bounds")
	fs.Float64Var(&c.TimeScale, "time-scale", c.TimeScale, "day/night angular speed in radians per second")
	fs.IntVar(&c.RainCount, "rain", c.RainCount, "rain drop count")
	fs.IntVar(&c.SplashCount, "splashes", c.SplashCount, "splash pool size")
	fs.IntVar(&c.Pedestrians, "pedestrians", c.Pedestrians, "pedestrian count")
	fs.IntVar(&c.Clouds, "clouds", c.Clouds, "cloud count")
	fs.BoolVar(&c.Mute, "mute", c.Mute, "disable rain audio")
}
