package nova_test

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/aretw0/nova"
	"github.com/aretw0/nova/pkg/adapters/record"
	"github.com/aretw0/nova/pkg/scheduler"
)

// ExampleNew walks the first two steps with the default inline scheduler.
func ExampleNew() {
	rec := record.New()
	eng := nova.New(nova.WithPresenter(rec), nova.WithVoice(rec))

	ctx := context.Background()
	if err := eng.Activate(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Println(rec.View().Text)
	fmt.Println(rec.Labels())

	if err := rec.Press("Next"); err != nil {
		log.Fatal(err)
	}
	st := eng.State()
	fmt.Println(st.CurrentStep, st.History)
	fmt.Println(rec.Labels())

	// Output:
	// Hi! I'm Nova, your virtual assistant.
	// [Next]
	// engagement [intro]
	// [Yes, I have! Not yet Back]
}

// ExampleNew_virtualClock shows the deferred option buttons under a manual clock.
func ExampleNew_virtualClock() {
	rec := record.New()
	clock := scheduler.NewManual()
	eng := nova.New(nova.WithPresenter(rec), nova.WithScheduler(clock))

	ctx := context.Background()
	if err := eng.Activate(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Printf("%q %v\n", rec.View().Visible, rec.Labels())

	clock.Advance(100 * time.Millisecond)
	fmt.Printf("%q %v\n", rec.View().Visible, rec.Labels())

	clock.Flush()
	fmt.Printf("%q %v\n", rec.View().Visible, rec.Labels())

	// Output:
	// "H" []
	// "Hi! I" []
	// "Hi! I'm Nova, your virtual assistant." [Next]
}
