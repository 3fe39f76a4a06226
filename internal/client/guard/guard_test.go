package guard_test

import (
	"context"

	"github.com/dmitrijs2005/gatepass/internal/client/guard"
	"github.com/dmitrijs2005/gatepass/internal/client/models"
	"github.com/dmitrijs2005/gatepass/internal/logging"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type fakeAuth struct {
	session     models.Session
	valid       bool
	validations int
	invalidated int
}

func (f *fakeAuth) Session() models.Session { return f.session }

func (f *fakeAuth) ValidateToken(context.Context) bool {
	f.validations++
	return f.valid
}

func (f *fakeAuth) Invalidate(context.Context) {
	f.invalidated++
	f.session = models.Session{}
}

var _ = Describe("Guard", func() {
	var (
		ctx    context.Context
		auth   *fakeAuth
		g      *guard.Guard
		states []guard.State
	)

	BeforeEach(func() {
		ctx = context.Background()
		auth = &fakeAuth{}
		g = guard.New(auth, logging.Discard())
		states = nil
		g.Observe(func(_ guard.Screen, st guard.State) { states = append(states, st) })
	})

	loginAs := func(role models.Role) {
		auth.session = models.Session{Token: "tok", Role: role, Username: "someone"}
		auth.valid = true
	}

	Context("public screens", func() {
		It("lets anyone open login without asking the server", func() {
			d, err := g.Check(ctx, guard.ScreenLogin)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Allowed()).To(BeTrue())
			Expect(auth.validations).To(BeZero())
			Expect(states).To(Equal([]guard.State{guard.Validating, guard.Authorized}))
		})
	})

	Context("without a session", func() {
		It("redirects to login and makes no request", func() {
			d, err := g.Check(ctx, guard.ScreenDashboard)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.State).To(Equal(guard.Redirecting))
			Expect(d.Redirect).To(Equal(guard.ScreenLogin))
			Expect(d.Reason).To(Equal(guard.ReasonNoSession))
			Expect(auth.validations).To(BeZero())
		})
	})

	Context("with a user session", func() {
		BeforeEach(func() { loginAs(models.RoleUser) })

		DescribeTable("operational screens",
			func(s guard.Screen) {
				d, err := g.Check(ctx, s)
				Expect(err).NotTo(HaveOccurred())
				Expect(d.Allowed()).To(BeTrue())
			},
			Entry("dashboard", guard.ScreenDashboard),
			Entry("item-in", guard.ScreenItemIn),
			Entry("item-out", guard.ScreenItemOut),
			Entry("search", guard.ScreenSearch),
			Entry("edit", guard.ScreenEdit),
		)

		It("refuses admin screens but keeps the session", func() {
			d, err := g.Check(ctx, guard.ScreenAddUser)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.State).To(Equal(guard.Redirecting))
			Expect(d.Reason).To(Equal(guard.ReasonWrongRole))
			Expect(d.Redirect).To(Equal(guard.ScreenLogin))
			Expect(auth.invalidated).To(BeZero())
			Expect(auth.session.Token).To(Equal("tok"))
		})

		It("validates again on every navigation", func() {
			for i := 0; i < 3; i++ {
				_, err := g.Check(ctx, guard.ScreenSearch)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(auth.validations).To(Equal(3))
		})

		It("clears the session when the server rejects the token", func() {
			auth.valid = false
			d, err := g.Check(ctx, guard.ScreenItemIn)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.State).To(Equal(guard.Redirecting))
			Expect(d.Reason).To(Equal(guard.ReasonInvalidToken))
			Expect(auth.invalidated).To(Equal(1))
			Expect(auth.session.Anonymous()).To(BeTrue())
			Expect(states).To(Equal([]guard.State{guard.Validating, guard.Redirecting}))
		})
	})

	Context("with an admin session", func() {
		BeforeEach(func() { loginAs(models.RoleAdmin) })

		It("opens admin screens", func() {
			for _, s := range []guard.Screen{guard.ScreenAddUser, guard.ScreenProjects} {
				d, err := g.Check(ctx, s)
				Expect(err).NotTo(HaveOccurred())
				Expect(d.Allowed()).To(BeTrue())
			}
		})

		It("does not inherit user screens", func() {
			d, err := g.Check(ctx, guard.ScreenDashboard)
			Expect(err).NotTo(HaveOccurred())
			Expect(d.Allowed()).To(BeFalse())
			Expect(d.Reason).To(Equal(guard.ReasonWrongRole))
		})
	})

	It("rejects unknown screens", func() {
		_, err := g.Check(ctx, guard.Screen("settings"))
		Expect(err).To(MatchError(guard.ErrUnknownScreen))
	})

	It("lists screens per role", func() {
		Expect(guard.ScreensFor(models.RoleAdmin)).To(Equal([]guard.Screen{guard.ScreenAddUser, guard.ScreenProjects}))
		Expect(guard.ScreensFor(models.RoleUser)).To(Equal([]guard.Screen{
			guard.ScreenDashboard, guard.ScreenEdit, guard.ScreenItemIn, guard.ScreenItemOut, guard.ScreenSearch,
		}))
	})
})
