// Package junction tracks the operational state of road intersections and
// cycles their directional signals through a safe, conflict-free sequence.
//
// The core of the package is the Intersection state machine: four
// directional signals with atomic per-signal updates, a conflict table that
// forbids crossing directions from showing green together, and a bounded
// change-event history. The Scheduler layers automatic cycling on top as a
// policy: it polls a Registry of intersections on a fixed tick and advances
// an independent phase cursor per running intersection. The Controller is
// the operational facade callers go through; it enforces the start/pause/
// resume preconditions and keeps the scheduler's tracking consistent with
// deletions and emergency stops.
//
// A minimal setup:
//
//	controller := junction.New()
//	controller.AddObserver(junction.NewLoggingObserver(junction.LogInfo, "junction"))
//
//	if _, err := controller.Create("main-first", "Main St & First Ave", nil); err != nil {
//		// ...
//	}
//	if err := controller.Start("main-first"); err != nil {
//		// ...
//	}
//
//	ctx, cancel := context.WithCancel(context.Background())
//	defer cancel()
//	go controller.Scheduler().Run(ctx, junction.DefaultTickInterval)
package junction
