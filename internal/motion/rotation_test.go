package motion_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/cphysics/internal/entity"
	"github.com/san-kum/cphysics/internal/motion"
	"github.com/san-kum/cphysics/internal/quat"
)

var _ = Describe("ApplyTorque", func() {
	It("divides by the moment of inertia", func() {
		e := body("wheel", 1, 0, mgl64.Vec3{}, false)
		e.MomentOfInertia = 2.5
		motion.ApplyTorque(e, mgl64.Vec3{0, 0, 5})
		Expect(e.AngularAcceleration).To(Equal(mgl64.Vec3{0, 0, 2}))
	})

	DescribeTable("is a no-op",
		func(static bool, inertia float64) {
			e := body("wheel", 1, 0, mgl64.Vec3{}, static)
			e.MomentOfInertia = inertia
			motion.ApplyTorque(e, mgl64.Vec3{1, 1, 1})
			Expect(e.AngularAcceleration).To(Equal(mgl64.Vec3{}))
		},
		Entry("for a static entity", true, 1.0),
		Entry("for zero inertia", false, 0.0),
		Entry("for negative inertia", false, -3.0),
	)
})

var _ = Describe("UpdateRotation", func() {
	It("integrates torque into angular velocity and clears the accumulator", func() {
		e := body("top", 1, 0, mgl64.Vec3{}, false)
		motion.ApplyTorque(e, mgl64.Vec3{0, 0, 2})
		motion.UpdateRotation(e, 0.5)

		Expect(e.AngularVelocity).To(Equal(mgl64.Vec3{0, 0, 1}))
		Expect(e.AngularAcceleration).To(Equal(mgl64.Vec3{}))
		Expect(e.Orientation).NotTo(Equal(quat.Identity))

		// no torque reapplied: angular velocity holds
		motion.UpdateRotation(e, 0.5)
		Expect(e.AngularVelocity).To(Equal(mgl64.Vec3{0, 0, 1}))
	})

	It("keeps the quaternion at unit norm", func() {
		e := body("spinner", 1, 0, mgl64.Vec3{}, false)
		_ = e.SetAngularVelocity(3, -7, 11)
		for i := 0; i < 5000; i++ {
			motion.ApplyTorque(e, mgl64.Vec3{math.Sin(float64(i)), 0.1, -0.2})
			motion.UpdateRotation(e, 0.01)
			if i%7 == 0 {
				motion.RotateEntity(e, mgl64.Vec3{1, 2, 3}, 0.3)
			}
			Expect(quat.Norm(e.Orientation)).To(BeNumerically("~", 1, 1e-6))
		}
	})

	It("rotates non-rigid bodies too", func() {
		rigid := body("rigid", 1, 0, mgl64.Vec3{}, false)
		rigid.RigidBody = true
		loose := body("loose", 1, 0, mgl64.Vec3{}, false)

		for _, e := range []*entity.Entity{rigid, loose} {
			_ = e.SetAngularVelocity(0, 1, 0)
			motion.UpdateRotation(e, 0.1)
		}
		Expect(loose.Orientation).To(Equal(rigid.Orientation))
		Expect(loose.Orientation).NotTo(Equal(quat.Identity))
	})

	It("never touches a static entity", func() {
		e := body("wall", 1, 0, mgl64.Vec3{}, true)
		_ = e.SetAngularVelocity(1, 2, 3)
		_ = e.SetAngularAcceleration(4, 5, 6)
		before := *e

		motion.ApplyTorque(e, mgl64.Vec3{9, 9, 9})
		motion.UpdateRotation(e, 1)
		motion.ApplyForce(nil, mgl64.Vec3{})

		Expect(*e).To(Equal(before))
	})

	It("tolerates a nil entity", func() {
		Expect(func() {
			motion.UpdateRotation(nil, 0.1)
			motion.ApplyTorque(nil, mgl64.Vec3{1, 0, 0})
			motion.RotateEntity(nil, mgl64.Vec3{1, 0, 0}, 1)
		}).NotTo(Panic())
	})
})

var _ = Describe("RotateEntity", func() {
	It("composes the new rotation after the current orientation", func() {
		e := body("probe", 1, 0, mgl64.Vec3{}, false)
		motion.RotateEntity(e, mgl64.Vec3{0, 0, 1}, math.Pi/2)
		motion.RotateEntity(e, mgl64.Vec3{1, 0, 0}, math.Pi/2)

		// x -> y under the first turn, y -> z under the second
		got := quat.Rotate(mgl64.Vec3{1, 0, 0}, e.Orientation)
		Expect(got[0]).To(BeNumerically("~", 0, 1e-9))
		Expect(got[1]).To(BeNumerically("~", 0, 1e-9))
		Expect(got[2]).To(BeNumerically("~", 1, 1e-9))
	})

	It("matches the axis-angle quaternion from identity", func() {
		e := body("probe", 1, 0, mgl64.Vec3{}, false)
		motion.RotateEntity(e, mgl64.Vec3{0, 0, 1}, math.Pi/2)
		got := quat.Rotate(mgl64.Vec3{1, 0, 0}, e.Orientation)
		Expect(got[0]).To(BeNumerically("~", 0, 1e-9))
		Expect(got[1]).To(BeNumerically("~", 1, 1e-9))
	})
})
