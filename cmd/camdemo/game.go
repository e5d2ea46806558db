package main

import (
	"fmt"
	"image/color"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/ebitenui/ebitenui"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"golang.design/x/clipboard"
	"gopkg.in/yaml.v3"

	"github.com/notbadgun/orthocam"
	"github.com/notbadgun/orthocam/bus"
	"github.com/notbadgun/orthocam/config"
	"github.com/notbadgun/orthocam/render"
	"github.com/notbadgun/orthocam/scene"
	"github.com/notbadgun/orthocam/script"
)

const tick = 1.0 / 60

type Game struct {
	graph    *scene.Graph
	bus      *bus.Bus
	cameras  *orthocam.Store
	viewport *render.Viewport
	director *script.Director
	world    *World
	ui       *ebitenui.UI

	display   config.Display
	ids       []string
	active    int
	endpoints map[string]*config.Endpoint

	watcher    *config.Watcher
	configPath string
	scriptPath string

	clipboardOK  bool
	pixelPerfect bool

	white *ebiten.Image
}

func NewGame(configPath, scriptPath string, watch bool) *Game {
	f := loadConfig(configPath)

	graph := scene.NewGraph()
	b := bus.New()
	cameras, err := orthocam.NewStore(graph, b, f.Display)
	if err != nil {
		log.Fatalf("camera store: %v", err)
	}
	viewport, err := render.NewViewport(b, f.Display)
	if err != nil {
		log.Fatalf("viewport: %v", err)
	}

	g := &Game{
		graph:      graph,
		bus:        b,
		cameras:    cameras,
		viewport:   viewport,
		world:      NewWorld(graph),
		display:    f.Display,
		endpoints:  map[string]*config.Endpoint{},
		configPath: configPath,
		scriptPath: scriptPath,
		white:      func() *ebiten.Image { img := ebiten.NewImage(1, 1); img.Fill(color.White); return img }(),
	}

	playerPos, _ := graph.WorldPosition(g.world.PlayerNode())
	for id := range f.Cameras {
		g.ids = append(g.ids, id)
	}
	sort.Strings(g.ids)
	for _, id := range g.ids {
		st := f.Cameras[id]
		if st.Follow {
			st.FollowTarget = g.world.PlayerNode()
		}
		node := graph.Spawn(scene.Nil)
		graph.SetLocalPosition(node, playerPos)
		ep := config.NewEndpoint(st)
		if err := cameras.Init(id, node, ep); err != nil {
			log.Fatalf("camera %s: %v", id, err)
		}
		g.endpoints[id] = ep
	}
	if len(g.ids) == 0 {
		log.Fatalf("config %s has no cameras", configPath)
	}

	g.director = loadDirector(g, scriptPath)
	g.ui = newDemoUI(g)

	if err := clipboard.Init(); err != nil {
		log.Printf("clipboard unavailable: %v", err)
	} else {
		g.clipboardOK = true
	}

	if watch {
		g.watcher = newAssetWatcher(configPath, scriptPath)
	}
	return g
}

func loadConfig(path string) config.File {
	var (
		f   config.File
		err error
	)
	if path != "" {
		f, err = config.Load(path)
	} else {
		f, err = config.Parse(readAsset("assets/cameras.yaml"))
	}
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	return f
}

func loadDirector(g *Game, path string) *script.Director {
	var src []byte
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			log.Fatalf("script: %v", err)
		}
		src = b
	} else {
		src = readAsset("assets/director.tengo")
	}
	d, err := script.NewDirector(g.cameras, g.graph, src)
	if err != nil {
		log.Fatalf("script: %v", err)
	}
	d.Bind("player", g.world.PlayerNode())
	return d
}

func newAssetWatcher(paths ...string) *config.Watcher {
	dirs := map[string]bool{}
	for _, p := range paths {
		if p != "" {
			dirs[filepath.Dir(p)] = true
		}
	}
	if len(dirs) == 0 {
		log.Printf("watch: nothing to watch, using embedded assets")
		return nil
	}
	var list []string
	for d := range dirs {
		list = append(list, d)
	}
	w, err := config.NewWatcher([]string{".yaml", ".yml", ".tengo"}, list...)
	if err != nil {
		log.Printf("watch: %v", err)
		return nil
	}
	return w
}

func (g *Game) activeID() string {
	return g.ids[g.active]
}

func (g *Game) nextCamera() {
	g.active = (g.active + 1) % len(g.ids)
}

func (g *Game) Update() error {
	g.ui.Update()
	g.handleInput()

	if err := g.director.Update(tick); err != nil {
		log.Printf("director: %v", err)
	}
	g.world.Update(g.graph, tick)

	g.bus.Dispatch()
	g.cameras.UpdateAll(tick)
	for _, id := range g.ids {
		g.cameras.SendViewProjection(id)
	}
	g.bus.Dispatch()

	g.pollWatcher()
	return nil
}

func (g *Game) handleInput() {
	id := g.activeID()

	if inpututil.IsKeyJustPressed(ebiten.KeyTab) {
		g.nextCamera()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyS) {
		g.cameras.Shake(id, 0.05, 0.6, orthocam.ShakeBoth, nil)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.cameras.Recoil(id, mgl64.Vec3{0, 40, 0}, 0.4)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyZ) {
		g.cameras.Snap(id)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyC) {
		g.copySettings()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.pixelPerfect = !g.pixelPerfect
		g.viewport.SetPixelPerfect(g.pixelPerfect)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		g.zoomBy(id, 1/1.25)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		g.zoomBy(id, 1.25)
	}

	projectors := map[ebiten.Key]string{
		ebiten.KeyDigit1: "STRETCH",
		ebiten.KeyDigit2: "FIXED_AUTO",
		ebiten.KeyDigit3: "FIXED_ZOOM",
	}
	for key, projector := range projectors {
		if inpututil.IsKeyJustPressed(key) {
			g.cameras.UseProjection(id, projector)
		}
	}
}

func (g *Game) zoomBy(id string, factor float64) {
	zoom := g.cameras.Zoom(id) * factor
	if zoom < 0.05 {
		zoom = 0.05
	}
	g.cameras.SetZoom(id, zoom)
}

// copySettings puts the active camera's current configuration on the
// clipboard as a YAML document, ready to paste back into cameras.yaml.
func (g *Game) copySettings() {
	if !g.clipboardOK {
		log.Printf("clipboard unavailable")
		return
	}
	id := g.activeID()
	doc := config.File{
		Display: g.display,
		Cameras: map[string]config.Settings{id: g.endpoints[id].Settings()},
	}
	out, err := yaml.Marshal(doc)
	if err != nil {
		log.Printf("marshal settings: %v", err)
		return
	}
	clipboard.Write(clipboard.FmtText, out)
	log.Printf("copied %s settings", id)
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path := <-g.watcher.Changes:
			g.reload(path)
		case err := <-g.watcher.Errors:
			log.Printf("watch: %v", err)
		default:
			return
		}
	}
}

func (g *Game) reload(path string) {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		f, err := config.Load(g.configPath)
		if err != nil {
			log.Printf("reload config: %v", err)
			return
		}
		for id, ep := range g.endpoints {
			if st, ok := f.Cameras[id]; ok {
				ep.Replace(st)
			}
		}
		log.Printf("reloaded %s", g.configPath)
	case ".tengo":
		src, err := os.ReadFile(g.scriptPath)
		if err != nil {
			log.Printf("reload script: %v", err)
			return
		}
		d, err := script.NewDirector(g.cameras, g.graph, src)
		if err != nil {
			log.Printf("reload script: %v", err)
			return
		}
		d.Bind("player", g.world.PlayerNode())
		g.director = d
		log.Printf("reloaded %s", g.scriptPath)
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.NRGBA{R: 0x18, G: 0x1c, B: 0x24, A: 0xff})

	id := g.activeID()
	geom := g.viewport.GeoM(id)

	for _, p := range g.world.Platforms() {
		if !g.viewport.Visible(id, p) {
			continue
		}
		g.drawRect(screen, geom, p, color.NRGBA{R: 0x3a, G: 0x47, B: 0x5a, A: 0xff})
	}
	g.drawBounds(screen, geom, id)
	g.drawRect(screen, geom, g.world.PlayerRect(), color.NRGBA{R: 0xe0, G: 0xb0, B: 0x40, A: 0xff})

	st := g.endpoints[id].Settings()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"FPS %.0f  camera %s  zoom %.2f  %s  pixel snap %v\n"+
			"arrows/space move  tab camera  1/2/3 projection  q/e zoom  s shake  r recoil  z snap  c copy  p pixel snap",
		ebiten.ActualFPS(), id, g.cameras.Zoom(id), st.Projection, g.pixelPerfect))

	g.ui.Draw(screen)
}

// drawBounds outlines the active camera's bounds rectangle.
func (g *Game) drawBounds(screen *ebiten.Image, geom ebiten.GeoM, id string) {
	st := g.endpoints[id].Settings()
	if !st.HasBounds() {
		return
	}
	const t = 4
	b := orthocam.Rect{Left: st.BoundsLeft, Top: st.BoundsTop, Right: st.BoundsRight, Bottom: st.BoundsBottom}
	edge := color.NRGBA{R: 0xd0, G: 0x50, B: 0x2a, A: 0xc0}
	g.drawRect(screen, geom, orthocam.Rect{Left: b.Left, Top: b.Top, Right: b.Right, Bottom: b.Top - t}, edge)
	g.drawRect(screen, geom, orthocam.Rect{Left: b.Left, Top: b.Bottom + t, Right: b.Right, Bottom: b.Bottom}, edge)
	g.drawRect(screen, geom, orthocam.Rect{Left: b.Left, Top: b.Top, Right: b.Left + t, Bottom: b.Bottom}, edge)
	g.drawRect(screen, geom, orthocam.Rect{Left: b.Right - t, Top: b.Top, Right: b.Right, Bottom: b.Bottom}, edge)
}

func (g *Game) drawRect(screen *ebiten.Image, geom ebiten.GeoM, r orthocam.Rect, c color.NRGBA) {
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(r.Width(), r.Height())
	op.GeoM.Translate(r.Left, r.Bottom)
	op.GeoM.Concat(geom)
	op.ColorScale.ScaleWithColor(c)
	screen.DrawImage(g.white, op)
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth <= 0 || outsideHeight <= 0 {
		return g.display.Width, g.display.Height
	}
	g.cameras.SetWindowSize(float64(outsideWidth), float64(outsideHeight))
	g.viewport.SetScreenSize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}
