package geometry

import (
	"math"
	"math/rand"
	"testing"

	"github.com/df07/go-pathtracer/pkg/core"
	"github.com/df07/go-pathtracer/pkg/material"
)

var testMaterial = material.NewLambertian(core.NewVec3(0.5, 0.5, 0.5))

func TestSphere_Hit_Miss(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(2, 0, 0), core.NewVec3(0, 1, 0))

	hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
	if isHit {
		t.Errorf("Expected miss, but got hit at t=%f", hit.T)
	}
}

func TestSphere_Hit_FrontAndBackFace(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)

	tests := []struct {
		name           string
		rayOrigin      core.Vec3
		rayDirection   core.Vec3
		expectedT      float64
		expectedFront  bool
		expectedNormal core.Vec3
	}{
		{
			name:           "front face hit",
			rayOrigin:      core.NewVec3(0, 0, 2),
			rayDirection:   core.NewVec3(0, 0, -1),
			expectedT:      1.0,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 0, 1),
		},
		{
			name:           "back face hit",
			rayOrigin:      core.NewVec3(0, 0, 0),
			rayDirection:   core.NewVec3(0, 0, 1),
			expectedT:      1.0,
			expectedFront:  false,
			expectedNormal: core.NewVec3(0, 0, -1),
		},
		{
			name:           "unnormalized direction",
			rayOrigin:      core.NewVec3(0, 3, 0),
			rayDirection:   core.NewVec3(0, -4, 0),
			expectedT:      0.5,
			expectedFront:  true,
			expectedNormal: core.NewVec3(0, 1, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := core.NewRay(tt.rayOrigin, tt.rayDirection)
			hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))

			if !isHit {
				t.Fatal("Expected hit, but got miss")
			}
			if math.Abs(hit.T-tt.expectedT) > 1e-9 {
				t.Errorf("Expected t=%f, got t=%f", tt.expectedT, hit.T)
			}
			if hit.FrontFace != tt.expectedFront {
				t.Errorf("Expected front face %t, got %t", tt.expectedFront, hit.FrontFace)
			}
			if hit.Normal.Subtract(tt.expectedNormal).Length() > 1e-9 {
				t.Errorf("Expected normal %v, got %v", tt.expectedNormal, hit.Normal)
			}
			if hit.Material != testMaterial {
				t.Error("Expected hit record to reference the sphere material")
			}
		})
	}
}

func TestSphere_Hit_Bounds(t *testing.T) {
	sphere := NewSphere(core.NewVec3(0, 0, 0), 1.0, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := sphere.Hit(ray, 0.001, 0.5)
	if isHit {
		t.Errorf("Expected miss due to tMax bound, but got hit at t=%f", hit.T)
	}

	hit, isHit = sphere.Hit(ray, 3.5, 1000.0)
	if isHit {
		t.Errorf("Expected miss due to tMin bound, but got hit at t=%f", hit.T)
	}

	// near root excluded, far root accepted
	hit, isHit = sphere.Hit(ray, 1.5, 1000.0)
	if !isHit {
		t.Fatal("Expected far root to be reported")
	}
	if math.Abs(hit.T-3.0) > 1e-9 || hit.FrontFace {
		t.Errorf("Expected back-face hit at t=3, got t=%f front=%t", hit.T, hit.FrontFace)
	}
}

func TestSphere_Hit_NegativeRadiusFlipsNormal(t *testing.T) {
	hollow := NewSphere(core.NewVec3(0, 0, 0), -0.5, testMaterial)
	ray := core.NewRay(core.NewVec3(0, 0, 2), core.NewVec3(0, 0, -1))

	hit, isHit := hollow.Hit(ray, 0.001, math.Inf(1))
	if !isHit {
		t.Fatal("Expected hit")
	}
	if math.Abs(hit.T-1.5) > 1e-9 {
		t.Errorf("Expected t=1.5, got %f", hit.T)
	}
	// outward normal points toward the center, so the ray counts as coming from inside
	if hit.FrontFace {
		t.Error("Expected back-face hit for a negative radius sphere")
	}
	if hit.Normal.Subtract(core.NewVec3(0, 0, 1)).Length() > 1e-9 {
		t.Errorf("Stored normal should still oppose the ray, got %v", hit.Normal)
	}
}

func TestSphere_Hit_NormalProperties(t *testing.T) {
	random := rand.New(rand.NewSource(42))
	sphere := NewSphere(core.NewVec3(0.3, -0.2, -1), 0.7, testMaterial)

	hits := 0
	for i := 0; i < 2000; i++ {
		origin := core.NewVec3(random.Float64()*4-2, random.Float64()*4-2, random.Float64()*4-2)
		direction := core.NewVec3(random.Float64()*2-1, random.Float64()*2-1, random.Float64()*2-1)
		ray := core.NewRay(origin, direction)

		hit, isHit := sphere.Hit(ray, 0.001, math.Inf(1))
		if !isHit {
			continue
		}
		hits++

		if math.Abs(hit.Normal.Length()-1) > 1e-9 {
			t.Fatalf("Normal %v is not unit length", hit.Normal)
		}
		outward := hit.Point.Subtract(sphere.Center).Divide(sphere.Radius)
		if hit.FrontFace != (direction.Dot(outward) < 0) {
			t.Fatalf("FrontFace %t disagrees with direction·outward=%f", hit.FrontFace, direction.Dot(outward))
		}
		if direction.Dot(hit.Normal) > 1e-12 {
			t.Fatalf("Stored normal %v does not oppose direction %v", hit.Normal, direction)
		}
	}

	if hits == 0 {
		t.Fatal("Test setup error: no ray hit the sphere")
	}
}
