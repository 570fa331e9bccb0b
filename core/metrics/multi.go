package metrics

// MultiSink fans out events to multiple sinks.
type MultiSink struct {
	Sinks []MetricsSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...MetricsSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordBookingDecision forwards the event to all sinks, returning the first
// error encountered.
func (m *MultiSink) RecordBookingDecision(ev BookingDecisionEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordBookingDecision(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordBatteryStep forwards steps to sinks able to record them.
func (m *MultiSink) RecordBatteryStep(ev BatteryStepEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(BatteryStepRecorder); ok {
			if err := rec.RecordBatteryStep(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordRunSummary forwards run summaries to sinks able to record them.
func (m *MultiSink) RecordRunSummary(ev RunSummaryEvent) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(RunSummaryRecorder); ok {
			if err := rec.RecordRunSummary(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
