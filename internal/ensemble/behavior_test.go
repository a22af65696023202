package ensemble_test

import (
	"math"
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/kuramoto/internal/dynamo"
	"github.com/san-kum/kuramoto/internal/ensemble"
	"github.com/san-kum/kuramoto/internal/integrators"
)

func phaseGap(x dynamo.State) float64 {
	d := math.Mod(math.Abs(x[1]-x[0]), 2*math.Pi)
	return math.Min(d, 2*math.Pi-d)
}

var _ = Describe("Ensemble", func() {
	Describe("label invariant", func() {
		DescribeTable("every label stays in [0, L) after an evaluation",
			func(n, l int, order ensemble.Order, workers int) {
				rng := rand.New(rand.NewSource(int64(n*31 + l)))
				e, err := ensemble.New(n, l, 2.0, ensemble.WithOrder(order), ensemble.WithWorkers(workers))
				Expect(err).NotTo(HaveOccurred())

				x := make(dynamo.State, n)
				labels := make([]int, n)
				for i := range x {
					x[i] = rng.NormFloat64() * 10
					labels[i] = rng.Intn(l)
				}
				Expect(e.SetLabels(labels)).To(Succeed())

				for rep := 0; rep < 5; rep++ {
					e.Derive(x, float64(rep))
					for _, g := range e.Labels() {
						Expect(g).To(BeNumerically(">=", 0))
						Expect(g).To(BeNumerically("<", l))
					}
				}
			},
			Entry("single oscillator, single group", 1, 1, ensemble.Snapshot, 1),
			Entry("small, many groups", 3, 10, ensemble.Snapshot, 1),
			Entry("sequential order", 50, 4, ensemble.Sequential, 1),
			Entry("parallel snapshot", 300, 7, ensemble.Snapshot, 4),
		)
	})

	Describe("uncoupled single group", func() {
		It("advances every oscillator in lockstep at π/2", func() {
			e, err := ensemble.New(6, 1, 0)
			Expect(err).NotTo(HaveOccurred())

			x0 := dynamo.State{0, 0.5, 1, 1.5, 2, 2.5}
			x, stats, err := integrators.IntegrateConst(ctx(), integrators.NewRK4(), e, x0, 0, 1, 0.1, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(stats.Steps).To(Equal(10))

			for i := range x {
				Expect(x[i] - x0[i]).To(BeNumerically("~", math.Pi/2, 1e-12))
			}
		})
	})

	Describe("a coupled pair with equal labels", func() {
		run := func(coupling ensemble.Coupling) (before, after float64) {
			e, err := ensemble.New(2, 1, 1.5, ensemble.WithCoupling(coupling))
			Expect(err).NotTo(HaveOccurred())

			x0 := dynamo.State{0, 1.0}
			x, _, err := integrators.IntegrateConst(ctx(), integrators.NewRK4(), e, x0, 0, 2, 0.01, nil)
			Expect(err).NotTo(HaveOccurred())
			return phaseGap(x0), phaseGap(x)
		}

		It("synchronizes under attractive coupling", func() {
			before, after := run(ensemble.AllToAll)
			Expect(after).To(BeNumerically("<", before/10))
		})

		It("drifts apart when the pair straddles the two halves", func() {
			before, after := run(ensemble.HalfPartition)
			Expect(after).To(BeNumerically(">", before))
		})
	})

	Describe("two communities, one RK4 step", func() {
		// Golden values from an independent double-precision evaluation.
		golden := dynamo.State{0.015724303250928273, 0.01652495661830299, 3.1573169568407216, 3.158117610208096}

		DescribeTable("phases and labels after h = 0.01",
			func(order ensemble.Order) {
				e, err := ensemble.New(4, 2, 1.0, ensemble.WithOrder(order))
				Expect(err).NotTo(HaveOccurred())
				Expect(e.SetLabels([]int{0, 1, 0, 1})).To(Succeed())

				x0 := dynamo.State{0, 0, math.Pi, math.Pi}
				k1 := e.Clone().Derive(x0, 0)
				for _, v := range k1 {
					Expect(v).NotTo(BeZero())
					Expect(math.IsInf(v, 0) || math.IsNaN(v)).To(BeFalse())
				}

				x := integrators.NewRK4().Step(e, x0, 0, 0.01)
				for i := range golden {
					Expect(x[i]).To(BeNumerically("~", golden[i], 1e-12))
				}
				Expect(e.Labels()).To(Equal([]int{0, 0, 0, 0}))
				Expect(e.Evaluations()).To(Equal(4))
			},
			Entry("snapshot", ensemble.Snapshot),
			Entry("sequential", ensemble.Sequential),
		)
	})
})
