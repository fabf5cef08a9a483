package persistor_test

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/aretw0/persistor"
)

// Reading is a small domain entity used by the examples.
type Reading struct {
	ID     string    `persist:"id"`
	Sensor string    `persist:"sensor"`
	Values []float64 `persist:"values"`
}

func (r *Reading) EntityID() string { return r.ID }

func init() {
	persistor.Register("Reading", func() persistor.Entity { return &Reading{} })
}

// Example_text demonstrates saving an entity as a text record and reading it back.
func Example_text() {
	tmpDir, err := os.MkdirTemp("", "persistor-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx, err := persistor.NewContext("text", map[string]string{"resource": tmpDir})
	if err != nil {
		log.Fatal(err)
	}
	repo := persistor.NewRepository(ctx)

	if err := repo.Save(&Reading{ID: "r-1", Sensor: "north", Values: []float64{1.5, 2.8}}); err != nil {
		log.Fatal(err)
	}

	raw, err := os.ReadFile(filepath.Join(tmpDir, "r-1.dat"))
	if err != nil {
		log.Fatal(err)
	}
	fmt.Print(string(raw))

	got, err := repo.Get("r-1", nil)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("sensor=%s values=%v\n", got.(*Reading).Sensor, got.(*Reading).Values)
	// Output:
	// __class__:Reading
	// id:r-1,sensor:north,
	// values>0:1.5,
	// values>1:2.8,
	// sensor=north values=[1.5 2.8]
}

// Example_missing shows that Get reports a missing record as (nil, nil).
func Example_missing() {
	tmpDir, err := os.MkdirTemp("", "persistor-example-*")
	if err != nil {
		log.Fatal(err)
	}
	defer os.RemoveAll(tmpDir)

	ctx, err := persistor.NewContext("binary", map[string]string{"resource": tmpDir})
	if err != nil {
		log.Fatal(err)
	}

	got, err := persistor.NewRepository(ctx).Get("nobody", nil)
	fmt.Println(got == nil, err == nil)
	// Output:
	// true true
}
