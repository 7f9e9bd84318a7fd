package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/eclipse/paho.mqtt.golang"
	"github.com/matt-g-everett/ledkey/api"
	"github.com/matt-g-everett/ledkey/frame"
	"github.com/matt-g-everett/ledkey/stream"
)

type app struct {
	Config     stream.Config
	Client     mqtt.Client
	Loop       *frame.Loop
	Strip      *stream.Strip
	Streamer   *stream.Streamer
	Controller *stream.Controller
}

func newApp(config stream.Config) (*app, error) {
	a := new(app)
	a.Config = config
	a.Loop = frame.NewLoop(config.FrameRate)

	strip, err := config.NewStrip()
	if err != nil {
		return nil, err
	}
	a.Strip = strip

	specs, err := config.BuildAnimations(strip, log.Default())
	if err != nil {
		return nil, err
	}
	a.Controller = stream.NewController(strip, a.Loop, specs)
	return a, nil
}

func (a *app) handleOnConnect(client mqtt.Client) {
	log.Println("Connected")
}

func (a *app) connect() {
	options := mqtt.NewClientOptions().
		AddBroker(a.Config.Mqtt.URL).
		SetClientID("ledkey").
		SetUsername(a.Config.Mqtt.Username).
		SetPassword(a.Config.Mqtt.Password).
		SetKeepAlive(30 * time.Second).
		SetPingTimeout(5 * time.Second).
		SetOnConnectHandler(a.handleOnConnect)
	a.Client = mqtt.NewClient(options)

	if token := a.Client.Connect(); token.Wait() && token.Error() != nil {
		log.Fatalf("mqtt connect: %v", token.Error())
	}

	publisher := stream.NewMQTTPublisher(a.Client, a.Config.Mqtt.Topics.Stream)
	a.Streamer = stream.NewStreamer(a.Loop, a.Strip, publisher)
}

func (a *app) run(ctx context.Context) error {
	a.Loop.Post(func() {
		a.Streamer.Start()
		if name := a.Config.Autoplay; name != "" {
			if err := a.Controller.Play(name); err != nil {
				log.Printf("autoplay %s: %v", name, err)
			}
		}
	})
	return a.Loop.Run(ctx)
}

func main() {
	// mqtt.DEBUG = log.New(os.Stdout, "", 0)
	mqtt.ERROR = log.New(os.Stdout, "", 0)

	// Parse command line parameters
	configPath := flag.String("config", "config.yaml", "YAML config file.")
	addr := flag.String("addr", ":3000", "HTTP listen address.")
	static := flag.String("static", "client/dist", "Directory of client pages.")
	flag.Parse()

	// Read the config
	config, err := stream.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.Printf("Config: %d pixels at %v fps, %d animations",
		config.Pixels, config.FrameRate, len(config.Animations))

	a, err := newApp(config)
	if err != nil {
		log.Fatalf("animations: %v", err)
	}
	a.connect()
	defer a.Client.Disconnect(250)

	server := api.NewApi(a.Controller, a.Loop.Post, *static)
	go func() {
		if err := server.Serve(*addr); err != nil {
			log.Fatalf("http: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := a.run(ctx); err != nil && err != context.Canceled {
		log.Println(err)
	}
}
