package scene

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-raw/common"
	"github.com/Carmen-Shannon/oxy-raw/engine/camera"
	"github.com/Carmen-Shannon/oxy-raw/engine/game_object"
	"github.com/Carmen-Shannon/oxy-raw/engine/light"
)

// DefaultParallelThreshold is the object count at or above which PrepareTransforms fans the
// per-object matrix work out to the compute pool.
const DefaultParallelThreshold = 64

// Transform holds the per-object matrices computed for one frame.
type Transform struct {
	// ModelView is view · model for the object.
	ModelView [16]float32

	// Normal is the inverse-transpose of ModelView.
	Normal [16]float32

	// NormalOK is false when ModelView was singular and Normal is unusable.
	NormalOK bool
}

// Scene is an ordered list of GameObjects plus an optional particle system, viewed through a
// Camera. Insertion order is draw order: Push appends and Pop removes the tail, so the two are
// inverse operations. Thread-safe for concurrent access.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Light returns the directional light every lit program is shaded with.
	//
	// Returns:
	//   - light.Light: the scene light
	Light() light.Light

	// SetLight replaces the scene light. A nil light is ignored.
	//
	// Parameters:
	//   - l: the new light
	SetLight(l light.Light)

	// Push appends a GameObject to the draw list and assigns it an ID if it has none.
	//
	// Parameters:
	//   - obj: the GameObject to add
	//
	// Returns:
	//   - uint64: the object's ID
	Push(obj game_object.GameObject) uint64

	// Pop removes and returns the most recently pushed GameObject, or nil if the scene is empty.
	//
	// Returns:
	//   - game_object.GameObject: the removed object or nil
	Pop() game_object.GameObject

	// Len returns the number of GameObjects in the draw list.
	//
	// Returns:
	//   - int: the count
	Len() int

	// At returns the GameObject at draw position i, or nil when i is out of range.
	//
	// Parameters:
	//   - i: the draw position
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	At(i int) game_object.GameObject

	// Objects returns a snapshot of the draw list in draw order.
	//
	// Returns:
	//   - []game_object.GameObject: the objects
	Objects() []game_object.GameObject

	// Get retrieves a GameObject by its ID. Returns nil if not found.
	//
	// Parameters:
	//   - id: the object's unique ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Clear removes all objects from the scene. Does not release GPU resources.
	Clear()

	// Particles returns the scene's particle system, or nil if none is attached.
	//
	// Returns:
	//   - *ParticleSystem: the particle system or nil
	Particles() *ParticleSystem

	// SetParticles attaches a particle system, replacing any previous one without releasing it.
	//
	// Parameters:
	//   - ps: the particle system, may be nil
	SetParticles(ps *ParticleSystem)

	// PrepareTransforms computes the model-view and normal matrices of every object in
	// objects against the camera's current view. Large lists are split across the compute
	// pool; the call returns only after every matrix is written.
	//
	// Parameters:
	//   - objects: the draw list, usually from Objects
	//   - angle: the scene-wide rotation angle in radians
	//
	// Returns:
	//   - []Transform: one transform per object, same order as objects
	PrepareTransforms(objects []game_object.GameObject, angle float32) []Transform
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool

	objects   []game_object.GameObject
	nextID    uint64
	particles *ParticleSystem

	cam   camera.Camera
	light light.Light

	// computePool manages a bounded set of reusable goroutines for the parallel
	// matrix prep phase of PrepareTransforms.
	computePool       worker.DynamicWorkerPool
	computeWorkers    int
	parallelThreshold int

	transformPool []Transform
}

var _ Scene = &scene{}

// NewScene creates a new Scene.
//
// Panics if cam is nil.
//
// Parameters:
//   - name: the scene's identifier
//   - cam: the camera the scene is viewed through
//   - options: functional options to configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	s := &scene{
		mu:                &sync.RWMutex{},
		name:              name,
		active:            true,
		cam:               cam,
		light:             light.NewLight(),
		nextID:            1,
		computeWorkers:    max(runtime.NumCPU()-1, 1),
		parallelThreshold: DefaultParallelThreshold,
	}

	for _, option := range options {
		option(s)
	}

	// Initialize the compute pool after options so WithComputeWorkers can override the default.
	s.computePool = worker.NewDynamicWorkerPool(s.computeWorkers, 256, 1*time.Second)

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Light() light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.light
}

func (s *scene) SetLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.light = l
}

func (s *scene) Push(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if obj.ID() == 0 {
		obj.SetID(atomic.AddUint64(&s.nextID, 1) - 1)
	}
	s.objects = append(s.objects, obj)
	return obj.ID()
}

func (s *scene) Pop() game_object.GameObject {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(s.objects)
	if n == 0 {
		return nil
	}
	obj := s.objects[n-1]
	s.objects[n-1] = nil
	s.objects = s.objects[:n-1]
	return obj
}

func (s *scene) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}

func (s *scene) At(i int) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i < 0 || i >= len(s.objects) {
		return nil
	}
	return s.objects[i]
}

func (s *scene) Objects() []game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]game_object.GameObject, len(s.objects))
	copy(out, s.objects)
	return out
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, obj := range s.objects {
		if obj.ID() == id {
			return obj
		}
	}
	return nil
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	clear(s.objects)
	s.objects = s.objects[:0]
}

func (s *scene) Particles() *ParticleSystem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.particles
}

func (s *scene) SetParticles(ps *ParticleSystem) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.particles = ps
}

func (s *scene) PrepareTransforms(objects []game_object.GameObject, angle float32) []Transform {
	s.mu.Lock()
	defer s.mu.Unlock()

	view := s.cam.ViewMatrix()
	if cap(s.transformPool) < len(objects) {
		s.transformPool = make([]Transform, len(objects))
	}
	out := s.transformPool[:len(objects)]

	if len(objects) < s.parallelThreshold {
		for i, obj := range objects {
			computeTransform(&out[i], obj, view, angle)
		}
		return out
	}

	// Split the list into one contiguous chunk per worker. A WaitGroup provides the
	// per-frame barrier since the pool itself only drains when workers idle-exit.
	chunk := (len(objects) + s.computeWorkers - 1) / s.computeWorkers
	var wg sync.WaitGroup
	taskID := 0
	for start := 0; start < len(objects); start += chunk {
		end := min(start+chunk, len(objects))
		wg.Add(1)
		lo, hi := start, end
		s.computePool.SubmitTask(worker.Task{
			ID: taskID,
			Do: func() (any, error) {
				defer wg.Done()
				for i := lo; i < hi; i++ {
					computeTransform(&out[i], objects[i], view, angle)
				}
				return nil, nil
			},
		})
		taskID++
	}
	wg.Wait()
	return out
}

func computeTransform(t *Transform, obj game_object.GameObject, view [16]float32, angle float32) {
	obj.ModelView(t.ModelView[:], view, angle)
	t.NormalOK = common.NormalMatrix(t.Normal[:], t.ModelView[:])
}
