package main

import (
	stdmath "math"

	"github.com/go-gl/mathgl/mgl32"

	"particle-engine/config"
)

// orbitCamera circles the target at a fixed radius and height.
type orbitCamera struct {
	target mgl32.Vec3
	radius float32
	height float32
	angle  float32 // radians around +Y
	speed  float32
	fov    float32 // degrees
	eye    mgl32.Vec3
}

func newOrbitCamera(cfg config.CameraConfig) *orbitCamera {
	eye := mgl32.Vec3(cfg.Eye)
	target := mgl32.Vec3(cfg.Target)
	offset := eye.Sub(target)
	c := &orbitCamera{
		target: target,
		radius: mgl32.Vec2{offset.X(), offset.Z()}.Len(),
		height: offset.Y(),
		angle:  float32(stdmath.Atan2(float64(offset.X()), float64(offset.Z()))),
		speed:  cfg.OrbitSpeed,
		fov:    cfg.FOV,
	}
	c.Update(0)
	return c
}

func (c *orbitCamera) Update(deltaTime float32) {
	c.angle += c.speed * deltaTime
	sin, cos := stdmath.Sincos(float64(c.angle))
	c.eye = c.target.Add(mgl32.Vec3{
		c.radius * float32(sin),
		c.height,
		c.radius * float32(cos),
	})
}

func (c *orbitCamera) Eye() mgl32.Vec3 { return c.eye }

func (c *orbitCamera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.eye, c.target, mgl32.Vec3{0, 1, 0})
}

func (c *orbitCamera) Projection(aspect float32) mgl32.Mat4 {
	return mgl32.Perspective(mgl32.DegToRad(c.fov), aspect, 0.1, 100)
}
