package cache

import (
	"testing"
)

func TestKey_OrderIndependent(t *testing.T) {
	a := Key([]string{"fever", "cough"}, map[string]float64{"smoking": 1.0, "age_65_plus": 0.5})
	b := Key([]string{"cough", "fever"}, map[string]float64{"age_65_plus": 0.5, "smoking": 1.0})
	if a != b {
		t.Errorf("request order should not change the cache key: %q vs %q", a, b)
	}
}

func TestKey_DistinguishesInputs(t *testing.T) {
	a := Key([]string{"fever"}, nil)
	b := Key([]string{"cough"}, nil)
	if a == b {
		t.Errorf("different symptom sets must not collide")
	}
	c := Key([]string{"fever"}, map[string]float64{"smoking": 1.0})
	if a == c {
		t.Errorf("risk factors must affect the key")
	}
}
