package switcher

import (
	"fmt"
	"net"

	"github.com/jfreymuth/pulse/proto"
	"go.uber.org/zap"
)

// PulseClient wraps a PulseAudio native-protocol connection with the few
// operations the switcher needs: enumerate sinks, read the default sink,
// and set a new default.
type PulseClient struct {
	logger *zap.SugaredLogger

	client *proto.Client
	conn   net.Conn
}

// NewPulseClient connects to the local PulseAudio server and identifies
// itself as pulse-switcher.
func NewPulseClient(logger *zap.SugaredLogger) (*PulseClient, error) {
	client, conn, err := proto.Connect("")
	if err != nil {
		logger.Warnw("Failed to establish PulseAudio connection", "error", err)
		return nil, fmt.Errorf("establish PulseAudio connection: %w", err)
	}

	request := proto.SetClientName{
		Props: proto.PropList{
			"application.name": proto.PropListString("pulse-switcher"),
		},
	}
	reply := proto.SetClientNameReply{}

	if err := client.Request(&request, &reply); err != nil {
		conn.Close()
		return nil, fmt.Errorf("set client name: %w", err)
	}

	pc := &PulseClient{
		logger: logger.Named("pulse"),
		client: client,
		conn:   conn,
	}

	pc.logger.Debug("Created PulseAudio client instance")

	return pc, nil
}

// Sinks returns all output devices in server enumeration order. The order is
// authoritative for cycling and is passed through unchanged.
func (pc *PulseClient) Sinks() ([]Device, error) {
	request := proto.GetSinkInfoList{}
	reply := proto.GetSinkInfoListReply{}

	if err := pc.client.Request(&request, &reply); err != nil {
		pc.logger.Warnw("Failed to get sink list", "error", err)
		return nil, fmt.Errorf("get sink list: %w", err)
	}

	devices := make([]Device, 0, len(reply))
	for _, sink := range reply {
		if sink == nil {
			continue
		}
		devices = append(devices, deviceFromSinkInfo(sink))
	}

	return devices, nil
}

func deviceFromSinkInfo(sink *proto.GetSinkInfoReply) Device {
	name := sink.SinkName
	if name == "" {
		name = fmt.Sprintf("[unknown name %d]", sink.SinkIndex)
	}

	description := ""
	if sink.Properties != nil {
		if descProp, ok := sink.Properties["device.description"]; ok {
			description = descProp.String()
		}
	}
	if description == "" {
		description = fmt.Sprintf("[unknown description %d]", sink.SinkIndex)
	}

	return Device{
		Index:       sink.SinkIndex,
		Name:        name,
		Description: description,
	}
}

// DefaultSinkName returns the name of the current default sink, or an empty
// string when the server has none set.
func (pc *PulseClient) DefaultSinkName() (string, error) {
	request := proto.GetServerInfo{}
	reply := proto.GetServerInfoReply{}

	if err := pc.client.Request(&request, &reply); err != nil {
		pc.logger.Warnw("Failed to get server info", "error", err)
		return "", fmt.Errorf("get server info: %w", err)
	}

	return reply.DefaultSinkName, nil
}

// SetDefaultSink makes the named sink the server's default output device.
func (pc *PulseClient) SetDefaultSink(name string) error {
	request := proto.SetDefaultSink{
		SinkName: name,
	}

	if err := pc.client.Request(&request, nil); err != nil {
		pc.logger.Warnw("Failed to set default sink", "sink", name, "error", err)
		return fmt.Errorf("set default sink: %w", err)
	}

	pc.logger.Debugw("Set default sink", "sink", name)

	return nil
}

// Close releases the PulseAudio connection.
func (pc *PulseClient) Close() error {
	if err := pc.conn.Close(); err != nil {
		pc.logger.Warnw("Failed to close PulseAudio connection", "error", err)
		return fmt.Errorf("close PulseAudio connection: %w", err)
	}

	pc.logger.Debug("Released PulseAudio client instance")

	return nil
}
