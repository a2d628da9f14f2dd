package driver_test

import (
	"bytes"
	"log"
	"math"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/dissolve/internal/curve"
	"github.com/san-kum/dissolve/internal/driver"
	"github.com/san-kum/dissolve/internal/phase"
	"github.com/san-kum/dissolve/internal/sink"
)

func loopingConfig() driver.Config {
	return driver.Config{
		Cycle: phase.Config{ActiveDuration: 4, PauseAtStart: 0.5, PauseAtEnd: 0.5, Looping: true},
		Curve: curve.Linear(),
	}
}

func oneShotConfig() driver.Config {
	return driver.Config{
		Cycle: phase.Config{ActiveDuration: 3, StartDelay: 0.5},
		Curve: curve.Linear(),
	}
}

var _ = Describe("Driver", func() {
	var (
		logs  *bytes.Buffer
		rec   *sink.Recorder
		light *sink.Light
	)

	BeforeEach(func() {
		logs = &bytes.Buffer{}
		driver.SetLogger(log.New(logs, "", 0))
		rec = &sink.Recorder{}
		light = &sink.Light{}
	})

	AfterEach(func() {
		driver.SetLogger(nil)
	})

	Describe("Configure", func() {
		It("rejects a zero active duration and keeps the previous config", func() {
			d, err := driver.NewWithConfig(loopingConfig(), rec, nil)
			Expect(err).NotTo(HaveOccurred())

			bad := loopingConfig()
			bad.Cycle.ActiveDuration = 0
			err = d.Configure(bad)
			Expect(err).To(MatchError(phase.ErrInvalidDuration))
			Expect(d.Config().Cycle.ActiveDuration).To(Equal(4.0))
		})

		It("rejects a missing curve", func() {
			cfg := loopingConfig()
			cfg.Curve = nil
			_, err := driver.NewWithConfig(cfg, rec, nil)
			Expect(err).To(MatchError(driver.ErrNoCurve))
		})

		It("rejects a secondary output without a curve", func() {
			cfg := loopingConfig()
			cfg.Secondary = &driver.Secondary{MaxIntensity: 1}
			_, err := driver.NewWithConfig(cfg, rec, light)
			Expect(err).To(MatchError(driver.ErrNoSecondaryCurve))
		})

		It("leaves an unconfigured driver idle on start", func() {
			d := driver.New(rec, nil)
			d.Start()
			d.Tick(1)
			Expect(d.Configured()).To(BeFalse())
			Expect(d.Status()).To(Equal(driver.Idle))
			Expect(d.State().Running).To(BeFalse())
			Expect(rec.Parameters).To(BeEmpty())
		})
	})

	Describe("looping cycle", func() {
		It("holds, ramps and reverses over a 5s cycle", func() {
			d, err := driver.NewWithConfig(loopingConfig(), rec, nil)
			Expect(err).NotTo(HaveOccurred())
			d.Start()
			Expect(d.Status()).To(Equal(driver.Active))

			d.Tick(0.25)
			Expect(d.Output()).To(Equal(0.0))
			Expect(d.Snapshot().Sample.Phase).To(Equal(phase.PauseStart))

			d.Tick(1.25)
			Expect(d.Output()).To(BeNumerically("~", 0.5, 1e-9))
			Expect(d.Snapshot().Sample.Phase).To(Equal(phase.Transitioning))

			d.Tick(1.0)
			Expect(d.Output()).To(Equal(1.0))
			Expect(d.Snapshot().Sample.Phase).To(Equal(phase.PauseEnd))

			d.Tick(2.75)
			Expect(d.Output()).To(Equal(0.0))
			Expect(d.State().Running).To(BeTrue())
		})

		It("writes the held endpoint during pauses regardless of the curve", func() {
			shifted, err := curve.NewKeyframes(
				curve.Keyframe{Time: 0, Value: 0.3, In: 0.5, Out: 0.5},
				curve.Keyframe{Time: 1, Value: 0.8, In: 0.5, Out: 0.5},
			)
			Expect(err).NotTo(HaveOccurred())
			cfg := loopingConfig()
			cfg.Curve = shifted
			cfg.Secondary = &driver.Secondary{Curve: shifted, MaxIntensity: 2}
			d, err := driver.NewWithConfig(cfg, rec, light)
			Expect(err).NotTo(HaveOccurred())
			d.Start()

			d.Tick(0.25)
			Expect(d.Snapshot().Sample.Phase).To(Equal(phase.PauseStart))
			Expect(d.Output()).To(Equal(0.0))
			Expect(d.SecondaryOutput()).To(BeNumerically("~", 0.6, 1e-9))

			d.Tick(1.25)
			Expect(d.Snapshot().Sample.Phase).To(Equal(phase.Transitioning))
			Expect(d.Output()).To(BeNumerically(">", 0.3))
			Expect(d.Output()).To(BeNumerically("<", 0.8))

			d.Tick(1.25)
			Expect(d.Snapshot().Sample.Phase).To(Equal(phase.PauseEnd))
			Expect(d.Output()).To(Equal(1.0))
			Expect(d.SecondaryOutput()).To(BeNumerically("~", 1.6, 1e-9))

			w, ok := rec.LastParameter()
			Expect(ok).To(BeTrue())
			Expect(w.Value).To(Equal(1.0))
		})

		It("writes to the configured parameter name", func() {
			cfg := loopingConfig()
			cfg.Parameter = "_Burn"
			d, err := driver.NewWithConfig(cfg, rec, nil)
			Expect(err).NotTo(HaveOccurred())
			d.Start()
			d.Tick(1.5)

			w, ok := rec.LastParameter()
			Expect(ok).To(BeTrue())
			Expect(w.Name).To(Equal("_Burn"))
		})
	})

	Describe("one-shot cycle", func() {
		It("waits out the delay, ramps, and completes", func() {
			d, err := driver.NewWithConfig(oneShotConfig(), rec, nil)
			Expect(err).NotTo(HaveOccurred())

			d.Start()
			Expect(d.Status()).To(Equal(driver.DelayWaiting))
			Expect(d.State().Elapsed).To(Equal(-0.5))
			Expect(d.Output()).To(Equal(0.0))

			d.Tick(0.25)
			Expect(d.Status()).To(Equal(driver.DelayWaiting))
			Expect(rec.Parameters).To(BeEmpty())

			d.Tick(0.25)
			Expect(d.Status()).To(Equal(driver.Active))
			Expect(rec.Parameters).To(HaveLen(1))
			Expect(d.Output()).To(Equal(0.0))

			d.Tick(1.5)
			Expect(d.Output()).To(BeNumerically("~", 0.5, 1e-9))

			d.Tick(1.5)
			Expect(d.Output()).To(Equal(1.0))
			Expect(d.State().Running).To(BeFalse())
			Expect(d.Status()).To(Equal(driver.Completed))

			writes := len(rec.Parameters)
			d.Tick(1)
			d.Tick(1)
			Expect(rec.Parameters).To(HaveLen(writes))
			Expect(d.Output()).To(Equal(1.0))
		})

		It("restarts cleanly when started while running", func() {
			d, err := driver.NewWithConfig(oneShotConfig(), rec, nil)
			Expect(err).NotTo(HaveOccurred())
			d.Start()
			d.Tick(2)
			d.Start()
			Expect(d.State().Elapsed).To(Equal(-0.5))
			Expect(d.State().Running).To(BeTrue())
			Expect(d.Status()).To(Equal(driver.DelayWaiting))
		})
	})

	Describe("Reset", func() {
		It("forces both outputs to zero from any state", func() {
			cfg := loopingConfig()
			cfg.Secondary = &driver.Secondary{Curve: curve.Linear(), MaxIntensity: 2}
			d, err := driver.NewWithConfig(cfg, rec, light)
			Expect(err).NotTo(HaveOccurred())

			d.Start()
			d.Tick(2)
			Expect(d.Output()).To(BeNumerically(">", 0))
			Expect(light.Intensity).To(BeNumerically(">", 0))

			d.Reset()
			Expect(d.Output()).To(Equal(0.0))
			Expect(d.SecondaryOutput()).To(Equal(0.0))
			Expect(light.Intensity).To(Equal(0.0))
			w, _ := rec.LastParameter()
			Expect(w.Value).To(Equal(0.0))
			Expect(d.Status()).To(Equal(driver.Idle))
			Expect(d.State()).To(Equal(driver.State{}))
		})

		It("pushes zero even before configuration", func() {
			d := driver.New(rec, nil)
			d.Reset()
			w, ok := rec.LastParameter()
			Expect(ok).To(BeTrue())
			Expect(w).To(Equal(sink.Write{Name: driver.DefaultParameter, Value: 0}))
		})
	})

	Describe("SetManual", func() {
		It("evaluates the curve without touching the clock", func() {
			cfg := loopingConfig()
			cfg.Curve = curve.EaseInOut()
			d, err := driver.NewWithConfig(cfg, rec, nil)
			Expect(err).NotTo(HaveOccurred())
			d.Start()
			d.Tick(1)
			before := d.State()

			Expect(d.SetManual(0.5)).To(Succeed())
			Expect(d.Output()).To(Equal(cfg.Curve.Evaluate(0.5)))
			Expect(d.State().Elapsed).To(Equal(before.Elapsed))
			Expect(d.State().Running).To(BeTrue())
			Expect(d.Status()).To(Equal(driver.Active))
		})

		It("clamps out-of-range values", func() {
			d, err := driver.NewWithConfig(loopingConfig(), rec, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.SetManual(4)).To(Succeed())
			Expect(d.Output()).To(Equal(1.0))
			Expect(d.SetManual(-2)).To(Succeed())
			Expect(d.Output()).To(Equal(0.0))
		})

		It("rejects NaN without writing", func() {
			d, err := driver.NewWithConfig(loopingConfig(), rec, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.SetManual(math.NaN())).To(MatchError(driver.ErrNaNInput))
			Expect(rec.Parameters).To(BeEmpty())
			Expect(d.Status()).To(Equal(driver.Idle))
		})
	})

	Describe("secondary output", func() {
		It("samples the secondary curve at the same progress as the primary", func() {
			cfg := driver.Config{
				Cycle:     phase.Config{ActiveDuration: 2, Looping: true},
				Curve:     curve.EaseInOut(),
				Secondary: &driver.Secondary{Curve: curve.Linear(), MaxIntensity: 3},
			}
			d, err := driver.NewWithConfig(cfg, rec, light)
			Expect(err).NotTo(HaveOccurred())
			d.Start()
			d.Tick(0.25)

			Expect(d.Output()).To(BeNumerically("~", 0.15625, 1e-9))
			Expect(d.SecondaryOutput()).To(BeNumerically("~", 0.75, 1e-9))
			Expect(light.Intensity).To(Equal(d.SecondaryOutput()))
		})
	})

	Describe("missing capability", func() {
		It("warns once per configuration and skips writes", func() {
			mat := sink.NewMaterial("_Other")
			d, err := driver.NewWithConfig(loopingConfig(), mat, nil)
			Expect(err).NotTo(HaveOccurred())

			d.Start()
			for i := 0; i < 10; i++ {
				d.Tick(0.3)
			}
			Expect(strings.Count(logs.String(), "warning")).To(Equal(1))
			Expect(d.Output()).To(BeNumerically(">", 0))
			Expect(mat.HasParameter(driver.DefaultParameter)).To(BeFalse())

			Expect(d.Configure(loopingConfig())).To(Succeed())
			Expect(strings.Count(logs.String(), "warning")).To(Equal(2))
		})

		It("warns when a secondary curve has no intensity target", func() {
			cfg := loopingConfig()
			cfg.Secondary = &driver.Secondary{Curve: curve.Linear(), MaxIntensity: 1}
			_, err := driver.NewWithConfig(cfg, rec, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(logs.String()).To(ContainSubstring("intensity"))
		})
	})
})
