package stream

import (
	"log"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledkey/animate"
)

// A Publisher delivers rendered frames to the device.
type Publisher interface {
	Publish(f *Frame) error
}

// MQTTPublisher publishes frames as binary MQTT messages.
type MQTTPublisher struct {
	client mqtt.Client
	topic  string
	qos    byte
}

// NewMQTTPublisher creates an MQTTPublisher for topic.
func NewMQTTPublisher(client mqtt.Client, topic string) *MQTTPublisher {
	p := new(MQTTPublisher)
	p.client = client
	p.topic = topic
	return p
}

// Publish sends the frame without waiting for delivery.
func (p *MQTTPublisher) Publish(f *Frame) error {
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}
	token := p.client.Publish(p.topic, p.qos, false, b)
	go func() {
		if token.Wait() && token.Error() != nil {
			log.Printf("publish %s: %v", p.topic, token.Error())
		}
	}()
	return nil
}

// Streamer that streams RGB data frames to an ledrx device, one per
// scheduler frame.
type Streamer struct {
	sched     animate.Scheduler
	renderer  Renderer
	publisher Publisher
	handle    animate.Handle
	sent      int
}

// NewStreamer creates an instance of a Streamer.
func NewStreamer(sched animate.Scheduler, renderer Renderer, publisher Publisher) *Streamer {
	s := new(Streamer)
	s.sched = sched
	s.renderer = renderer
	s.publisher = publisher
	return s
}

// Start causes the Streamer to send a Frame on every scheduler frame. It
// must run on the scheduler's goroutine.
func (s *Streamer) Start() {
	if s.handle != nil {
		return
	}
	s.handle = s.sched.RequestFrame(s.send)
}

// Stop stops streaming after the current frame.
func (s *Streamer) Stop() {
	if s.handle != nil {
		s.handle.Cancel()
		s.handle = nil
	}
}

// Sent returns the number of frames published.
func (s *Streamer) Sent() int {
	return s.sent
}

func (s *Streamer) send(time.Time) {
	f := s.renderer.Render()
	if err := s.publisher.Publish(f); err != nil {
		log.Printf("send frame: %v", err)
	} else {
		s.sent++
	}
	s.handle = s.sched.RequestFrame(s.send)
}
