package collision_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cphysics/internal/collision"
	"github.com/san-kum/cphysics/internal/entity"
)

func ball(name string, mass, restitution float64, pos, vel mgl64.Vec3) *entity.Entity {
	return entity.New(name, mass, 0, entity.Options{Position: &pos, Velocity: &vel, Restitution: restitution})
}

func wall(pos mgl64.Vec3) *entity.Entity {
	return entity.New("wall", 1000, 0, entity.Options{Position: &pos, Restitution: 0.5, Static: true})
}

func totalKE(es ...*entity.Entity) float64 {
	sum := 0.0
	for _, e := range es {
		sum += entity.KineticEnergy(e)
	}
	return sum
}

func expectVec(got, want mgl64.Vec3, tol float64) {
	for i := range want {
		ExpectWithOffset(1, got[i]).To(BeNumerically("~", want[i], tol))
	}
}

var _ = Describe("Process", func() {
	var loss float64

	BeforeEach(func() {
		loss = -1
	})

	Context("with degenerate input", func() {
		It("writes zero loss for a nil entity", func() {
			b := ball("b", 1, 1, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{})
			Expect(collision.Process(nil, b, &loss)).To(Equal(collision.Degenerate))
			Expect(collision.Process(b, nil, &loss)).To(Equal(collision.Degenerate))
			Expect(loss).To(BeZero())
		})

		It("leaves two static entities alone", func() {
			a, b := wall(mgl64.Vec3{0, 0, 0}), wall(mgl64.Vec3{0.5, 0, 0})
			Expect(collision.Process(a, b, &loss)).To(Equal(collision.Degenerate))
			Expect(*a.Position()).To(Equal(mgl64.Vec3{0, 0, 0}))
			Expect(*b.Position()).To(Equal(mgl64.Vec3{0.5, 0, 0}))
			Expect(loss).To(BeZero())
		})

		It("treats a massless dynamic pair as degenerate", func() {
			a := ball("a", 0, 1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0})
			b := ball("b", 1, 1, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{})
			Expect(collision.Process(a, b, &loss)).To(Equal(collision.Degenerate))
			Expect(*a.Velocity()).To(Equal(mgl64.Vec3{1, 0, 0}))
			Expect(loss).To(BeZero())
		})

		It("accepts a nil loss pointer", func() {
			Expect(func() { collision.Process(nil, nil, nil) }).NotTo(Panic())
		})
	})

	Context("with coincident positions", func() {
		It("does nothing for two dynamic entities", func() {
			a := ball("a", 1, 1, mgl64.Vec3{2, 2, 2}, mgl64.Vec3{1, 0, 0})
			b := ball("b", 1, 1, mgl64.Vec3{2, 2, 2}, mgl64.Vec3{-1, 0, 0})
			Expect(collision.Process(a, b, &loss)).To(Equal(collision.Coincident))
			Expect(*a.Velocity()).To(Equal(mgl64.Vec3{1, 0, 0}))
			Expect(*b.Velocity()).To(Equal(mgl64.Vec3{-1, 0, 0}))
			Expect(loss).To(BeZero())
		})

		It("does nothing against a static entity", func() {
			a := ball("a", 1, 1, mgl64.Vec3{}, mgl64.Vec3{1, 0, 0})
			Expect(collision.Process(a, wall(mgl64.Vec3{}), &loss)).To(Equal(collision.Coincident))
			Expect(*a.Position()).To(Equal(mgl64.Vec3{}))
			Expect(loss).To(BeZero())
		})
	})

	Context("against a static entity", func() {
		DescribeTable("bounces the dynamic entity away from the wall",
			func(dynamicFirst bool) {
				b := ball("b", 2, 0.5, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{3, 1, 0})
				w := wall(mgl64.Vec3{1, 0, 0})

				var out collision.Outcome
				if dynamicFirst {
					out = collision.Process(b, w, &loss)
				} else {
					out = collision.Process(w, b, &loss)
				}

				Expect(out).To(Equal(collision.StaticContact))
				// pushed back from the wall by the fixed separation
				expectVec(*b.Position(), mgl64.Vec3{-collision.StaticSeparation, 0, 0}, 1e-12)
				// normal component reflected and scaled, tangential kept
				expectVec(*b.Velocity(), mgl64.Vec3{-1.5, 1, 0}, 1e-12)
				Expect(loss).To(BeNumerically("~", 0.5*2*(9-2.25), 1e-12))
				Expect(*w.Position()).To(Equal(mgl64.Vec3{1, 0, 0}))
				Expect(*w.Velocity()).To(Equal(mgl64.Vec3{}))
			},
			Entry("dynamic entity first", true),
			Entry("static entity first", false),
		)

		It("loses nothing with restitution 1", func() {
			b := ball("b", 1, 1, mgl64.Vec3{0, 5, 0}, mgl64.Vec3{0, -4, 0})
			w := wall(mgl64.Vec3{0, 0, 0})
			collision.Process(b, w, &loss)
			expectVec(*b.Velocity(), mgl64.Vec3{0, 4, 0}, 1e-12)
			Expect(loss).To(BeNumerically("~", 0, 1e-12))
		})

		It("has non-negative loss for restitution in [0,1]", func() {
			for _, e := range []float64{0, 0.25, 0.5, 0.75, 1} {
				b := ball("b", 3, e, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, -1, 0.5})
				w := wall(mgl64.Vec3{0.3, 0, 0.4})
				collision.Process(b, w, &loss)
				Expect(loss).To(BeNumerically(">=", -1e-12))
			}
		})
	})

	Context("between two dynamic entities", func() {
		It("ignores a separating pair", func() {
			a := ball("a", 1, 1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{-1, 0, 0})
			b := ball("b", 1, 1, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{1, 0, 0})

			Expect(collision.Process(a, b, &loss)).To(Equal(collision.Separating))
			Expect(*a.Position()).To(Equal(mgl64.Vec3{0, 0, 0}))
			Expect(*b.Position()).To(Equal(mgl64.Vec3{1, 0, 0}))
			Expect(*a.Velocity()).To(Equal(mgl64.Vec3{-1, 0, 0}))
			Expect(*b.Velocity()).To(Equal(mgl64.Vec3{1, 0, 0}))
			Expect(loss).To(BeZero())
		})

		It("transfers all momentum in a 1-D elastic collision", func() {
			a := ball("a", 1, 1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0})
			b := ball("b", 1, 1, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 0})

			Expect(collision.Process(a, b, &loss)).To(Equal(collision.Resolved))
			expectVec(*a.Velocity(), mgl64.Vec3{0, 0, 0}, 1e-12)
			expectVec(*b.Velocity(), mgl64.Vec3{1, 0, 0}, 1e-12)
			Expect(loss).To(BeNumerically("~", 0, 1e-12))
		})

		It("loses energy in a perfectly inelastic collision", func() {
			a := ball("a", 1, 0, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0})
			b := ball("b", 1, 0, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 0})
			before := totalKE(a, b)

			Expect(collision.Process(a, b, &loss)).To(Equal(collision.Resolved))
			after := totalKE(a, b)

			Expect(loss).To(BeNumerically(">", 0))
			Expect(loss).To(BeNumerically("~", before-after, 1e-12))
			Expect(loss).To(BeNumerically("~", 0.25, 1e-12))
			expectVec(*a.Velocity(), mgl64.Vec3{0.5, 0, 0}, 1e-12)
			expectVec(*b.Velocity(), mgl64.Vec3{0.5, 0, 0}, 1e-12)
		})

		It("resolves a resting contact", func() {
			a := ball("a", 1, 1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{})
			b := ball("b", 1, 1, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{})
			Expect(collision.Process(a, b, &loss)).To(Equal(collision.Resolved))
			Expect(*a.Velocity()).To(Equal(mgl64.Vec3{}))
			Expect(loss).To(BeZero())
		})

		It("uses the smaller restitution coefficient", func() {
			a := ball("a", 1, 1, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 0, 0})
			b := ball("b", 1, 0, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0, 0})
			collision.Process(a, b, &loss)
			expectVec(*a.Velocity(), mgl64.Vec3{0.5, 0, 0}, 1e-12)
			expectVec(*b.Velocity(), mgl64.Vec3{0.5, 0, 0}, 1e-12)
		})

		It("conserves momentum and splits separation by inverse mass", func() {
			a := ball("a", 3, 0.6, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{2, 1, -1})
			b := ball("b", 1, 0.9, mgl64.Vec3{0.6, 0.8, 0}, mgl64.Vec3{-1, -2, 0.5})
			pBefore := entity.LinearMomentum(a).Add(entity.LinearMomentum(b))

			Expect(collision.Process(a, b, &loss)).To(Equal(collision.Resolved))

			pAfter := entity.LinearMomentum(a).Add(entity.LinearMomentum(b))
			expectVec(pAfter, pBefore, 1e-12)
			Expect(loss).To(BeNumerically(">=", 0))

			n := mgl64.Vec3{0.6, 0.8, 0}
			// the heavier entity moves a quarter of the separation
			expectVec(*a.Position(), n.Mul(-collision.DynamicSeparation*0.25), 1e-12)
			expectVec(*b.Position(), n.Add(n.Mul(collision.DynamicSeparation*0.75)), 1e-12)
		})

		It("leaves the pair separating afterwards", func() {
			a := ball("a", 2, 0.3, mgl64.Vec3{0, 0, 0}, mgl64.Vec3{1, 1, 0})
			b := ball("b", 5, 0.8, mgl64.Vec3{1, 1, 1}, mgl64.Vec3{0, 0, -2})
			collision.Process(a, b, nil)

			n := b.Position().Sub(*a.Position()).Normalize()
			vRel := b.Velocity().Sub(*a.Velocity()).Dot(n)
			Expect(vRel).To(BeNumerically(">=", -1e-12))
			Expect(math.IsNaN(vRel)).To(BeFalse())
		})
	})
})

var _ = Describe("Outcome", func() {
	It("names every branch", func() {
		seen := map[string]bool{}
		for _, o := range collision.Outcomes {
			Expect(o.String()).NotTo(Equal("unknown"))
			Expect(seen).NotTo(HaveKey(o.String()))
			seen[o.String()] = true
		}
	})

	It("reports which branches mutate state", func() {
		Expect(collision.Resolved.Changed()).To(BeTrue())
		Expect(collision.StaticContact.Changed()).To(BeTrue())
		Expect(collision.Separating.Changed()).To(BeFalse())
		Expect(collision.Coincident.Changed()).To(BeFalse())
		Expect(collision.Degenerate.Changed()).To(BeFalse())
	})
})
