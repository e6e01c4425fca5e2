/*
Package estimate estimates growing tube parameters from digitized growth
trajectories.

A growth trajectory is a sequence of points along a shell's coiling axis,
each with a tube thickness. Chord lengths underestimate the true arc length
of the trajectory, so FitArclength fits a B-spline through the points and
rescales the arc length parameters until they agree with the arc length of
the fitted curve. The thickness as a function of arc length then yields the
growth rate E and the initial radius r0 (FitGrowthRate).

BSD License

Copyright (c) Norbert Pillmayer

All rights reserved.

Please refer to the license file for more information.
*/
package estimate

import "github.com/npillmayer/schuko/tracing"

// tracer writes to trace with key 'growtube.estimate'
func tracer() tracing.Trace {
	return tracing.Select("growtube.estimate")
}
