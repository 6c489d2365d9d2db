package store_test

import (
	"testing"
	"time"

	"github.com/TecharoHQ/sphinx/lib/store"
	"github.com/TecharoHQ/sphinx/lib/store/memory"
)

func TestJSON(t *testing.T) {
	type data struct {
		Key string `json:"key"`
	}

	st := memory.New(t.Context())
	db := store.JSON[data]{
		Underlying: st,
		Prefix:     "CAPTCHA_",
	}

	if err := db.Set(t.Context(), "test", data{Key: t.Name()}, time.Minute); err != nil {
		t.Fatal(err)
	}

	ok, err := db.Has(t.Context(), "test")
	if err != nil {
		t.Fatal(err)
	}
	if !ok {
		t.Fatal("wanted prefixed key to exist")
	}

	if ok, _ := st.Has(t.Context(), "CAPTCHA_test"); !ok {
		t.Fatal("prefix was not applied to the underlying key")
	}

	got, err := db.Get(t.Context(), "test")
	if err != nil {
		t.Fatal(err)
	}

	if got.Key != t.Name() {
		t.Fatalf("got wrong data for key \"test\", wanted %q but got: %q", t.Name(), got.Key)
	}

	if err := db.Delete(t.Context(), "test"); err != nil {
		t.Fatal(err)
	}

	if _, err := db.Get(t.Context(), "test"); err == nil {
		t.Fatal("wanted invalid get to fail, it did not")
	}

	if err := st.Set(t.Context(), "CAPTCHA_test", []byte("}"), time.Minute); err != nil {
		t.Fatal(err)
	}

	if _, err := db.Get(t.Context(), "test"); err == nil {
		t.Fatal("wanted invalid get to fail, it did not")
	}
}
