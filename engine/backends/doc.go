// Package backends picks the graphics backend at compile time. Windows
// builds get Direct3D, every other platform gets OpenGL, and the vulkan
// build tag selects Vulkan everywhere.
package backends
