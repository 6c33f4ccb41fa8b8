package motion_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cphysics/internal/entity"
	"github.com/san-kum/cphysics/internal/motion"
)

func body(name string, mass, charge float64, pos mgl64.Vec3, static bool) *entity.Entity {
	return entity.New(name, mass, charge, entity.Options{Position: &pos, Static: static})
}

var _ = Describe("ApplyForce", func() {
	It("accumulates into acceleration", func() {
		e := body("a", 1, 0, mgl64.Vec3{}, false)
		motion.ApplyForce(e, mgl64.Vec3{1, 2, 3})
		motion.ApplyForce(e, mgl64.Vec3{-1, 0, 1})
		Expect(*e.Acceleration()).To(Equal(mgl64.Vec3{0, 2, 4}))
	})

	It("ignores a nil entity", func() {
		Expect(func() { motion.ApplyForce(nil, mgl64.Vec3{1, 0, 0}) }).NotTo(Panic())
	})
})

var _ = Describe("Coulomb force", func() {
	var a, b *entity.Entity

	BeforeEach(func() {
		a = body("a", 2, 1e-6, mgl64.Vec3{0, 0, 0}, false)
		b = body("b", 4, 1e-6, mgl64.Vec3{3, 4, 0}, false)
	})

	It("is symmetric and matches k·q1·q2/d²", func() {
		fa, fb := motion.ApplyElectricForce(a, b)
		Expect(fa.Add(fb).Len()).To(BeNumerically("~", 0, 1e-15))

		want := motion.K * 1e-6 * 1e-6 / 25
		Expect(fa.Len()).To(BeNumerically("~", want, want*1e-12))
		Expect(fb.Len()).To(BeNumerically("~", want, want*1e-12))
	})

	It("repels like charges", func() {
		fa, _ := motion.ApplyElectricForce(a, b)
		// a sits at the origin, b along +(3,4): a is pushed toward -(3,4)
		Expect(fa.Dot(mgl64.Vec3{3, 4, 0})).To(BeNumerically("<", 0))
		Expect(a.Acceleration().Dot(mgl64.Vec3{3, 4, 0})).To(BeNumerically("<", 0))
		Expect(b.Acceleration().Dot(mgl64.Vec3{3, 4, 0})).To(BeNumerically(">", 0))
	})

	It("attracts opposite charges", func() {
		b.Charge = -1e-6
		fa, _ := motion.ApplyElectricForce(a, b)
		Expect(fa.Dot(mgl64.Vec3{3, 4, 0})).To(BeNumerically(">", 0))
	})

	It("divides by each side's own mass", func() {
		fa, fb := motion.ApplyElectricForce(a, b)
		Expect(a.Acceleration().Len()).To(BeNumerically("~", fa.Len()/2, 1e-15))
		Expect(b.Acceleration().Len()).To(BeNumerically("~", fb.Len()/4, 1e-15))
	})

	It("skips static sides", func() {
		b.Static = true
		motion.ApplyElectricForce(a, b)
		Expect(*b.Acceleration()).To(Equal(mgl64.Vec3{}))
		Expect(a.Acceleration().Len()).To(BeNumerically(">", 0))
	})

	It("is a no-op for coincident entities", func() {
		_ = b.SetPosition(0, 0, 0)
		fa, fb := motion.ApplyElectricForce(a, b)
		Expect(fa).To(Equal(mgl64.Vec3{}))
		Expect(fb).To(Equal(mgl64.Vec3{}))
		Expect(*a.Acceleration()).To(Equal(mgl64.Vec3{}))
		Expect(*b.Acceleration()).To(Equal(mgl64.Vec3{}))
	})

	It("tolerates nil entities", func() {
		fa, fb := motion.ApplyElectricForce(nil, b)
		Expect(fa).To(Equal(mgl64.Vec3{}))
		Expect(fb).To(Equal(mgl64.Vec3{}))
		Expect(*b.Acceleration()).To(Equal(mgl64.Vec3{}))
	})

	It("leaves a massless side unaccelerated", func() {
		a.Mass = 0
		motion.ApplyElectricForce(a, b)
		Expect(*a.Acceleration()).To(Equal(mgl64.Vec3{}))
		Expect(b.Acceleration().Len()).To(BeNumerically(">", 0))
	})
})

var _ = Describe("Universal gravitation", func() {
	It("pulls the bodies together with G·m1·m2/d²", func() {
		a := body("earth", 5.972e24, 0, mgl64.Vec3{0, 0, 0}, false)
		b := body("moon", 7.348e22, 0, mgl64.Vec3{3.844e8, 0, 0}, false)

		fa, fb := motion.ApplyUniversalGravitation(a, b)
		want := motion.G * 5.972e24 * 7.348e22 / (3.844e8 * 3.844e8)

		Expect(fa.Len()).To(BeNumerically("~", want, want*1e-12))
		Expect(fa[0]).To(BeNumerically(">", 0))
		Expect(fb[0]).To(BeNumerically("<", 0))
		Expect(fa.Add(fb).Len()).To(BeNumerically("~", 0, want*1e-12))

		// lunar acceleration toward earth is about 2.7 mm/s²
		Expect(b.Acceleration()[0]).To(BeNumerically("~", -2.7e-3, 1e-4))
	})

	It("shares the coincidence guard", func() {
		a := body("a", 1, 0, mgl64.Vec3{1, 1, 1}, false)
		b := body("b", 1, 0, mgl64.Vec3{1, 1, 1}, false)
		motion.ApplyUniversalGravitation(a, b)
		Expect(math.IsNaN(a.Acceleration()[0])).To(BeFalse())
		Expect(*a.Acceleration()).To(Equal(mgl64.Vec3{}))
	})

	It("never moves a static body", func() {
		a := body("a", 10, 0, mgl64.Vec3{0, 0, 0}, true)
		b := body("b", 10, 0, mgl64.Vec3{0, 2, 0}, false)
		motion.ApplyUniversalGravitation(a, b)
		Expect(*a.Acceleration()).To(Equal(mgl64.Vec3{}))
		Expect(b.Acceleration()[1]).To(BeNumerically("<", 0))
	})
})
