//go:build linux

package capture

import (
	"context"
	"log"
	"strconv"

	"github.com/blackjack/webcam"

	"github.com/camstream/camstreamd/internal/bmff"
	"github.com/camstream/camstreamd/internal/config"
	"github.com/camstream/camstreamd/internal/streamerr"
)

// v4l2FourCC maps this module's Format enum to the blackjack/webcam pixel
// format values, derived from the same FourCC bytes bmff.Format carries.
func v4l2FourCC(f bmff.Format) webcam.PixelFormat {
	cc := f.FourCC()
	return webcam.PixelFormat(uint32(cc[0]) | uint32(cc[1])<<8 | uint32(cc[2])<<16 | uint32(cc[3])<<24)
}

// NamedControls maps config.controls keys to their V4L2 control IDs.
// Unknown names are logged and skipped, per spec.md §4.C. Exported so
// package capability's v4l2 discoverer reports the same control
// vocabulary this package actually applies.
var NamedControls = map[string]webcam.ControlID{
	"brightness": 0x00980900,
	"contrast":   0x00980901,
	"saturation": 0x00980902,
	"hue":        0x00980903,
	"gain":       0x00980913,
	"sharpness":  0x0098091b,
	"exposure":   0x009a0902,
}

type v4l2Source struct {
	cam *webcam.Camera
}

func open(cfg config.Config) (FrameSource, error) {
	cam, err := webcam.Open(cfg.Device)
	if err != nil {
		return nil, &streamerr.CameraError{Device: cfg.Device, Op: "open", Err: err}
	}

	format := v4l2FourCC(cfg.Format)
	if _, _, _, err := cam.SetImageFormat(format, cfg.Resolution.Width, cfg.Resolution.Height); err != nil {
		cam.Close()
		return nil, &streamerr.CameraError{Device: cfg.Device, Op: "set image format", Err: err}
	}

	for name, value := range cfg.Controls {
		id, ok := NamedControls[name]
		if !ok {
			log.Printf("capture: device %s: unknown control %q, ignoring", cfg.Device, name)
			continue
		}
		if err := applyControl(cam, id, value); err != nil {
			log.Printf("capture: device %s: control %q rejected: %v", cfg.Device, name, err)
		}
	}

	if err := cam.StartStreaming(); err != nil {
		cam.Close()
		return nil, &streamerr.CameraError{Device: cfg.Device, Op: "start streaming", Err: err}
	}

	return &v4l2Source{cam: cam}, nil
}

func applyControl(cam *webcam.Camera, id webcam.ControlID, value string) error {
	n, err := strconv.Atoi(value)
	if err != nil {
		return err
	}
	return cam.SetControl(id, int32(n))
}

func (s *v4l2Source) NextFrame(ctx context.Context) ([]byte, error) {
	done := make(chan struct{})
	var frame []byte
	var err error
	go func() {
		err = s.cam.WaitForFrame(2)
		if err == nil {
			frame, err = s.cam.ReadFrame()
		}
		close(done)
	}()
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-done:
	}
	if err != nil {
		return nil, &streamerr.CameraError{Op: "capture", Err: err}
	}
	out := make([]byte, len(frame))
	copy(out, frame)
	return out, nil
}

func (s *v4l2Source) Close() error {
	s.cam.StopStreaming()
	return s.cam.Close()
}
