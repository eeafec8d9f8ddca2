package sysinfo

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/net"
)

// SystemSampler samples the host through gopsutil.
type SystemSampler struct {
	iface  string
	sensor string

	last     time.Time
	received uint64
	sent     uint64
}

// NewSystemSampler samples the network interface named iface and the temperature sensor whose key
// contains sensor. An empty sensor picks the hottest one.
func NewSystemSampler(iface, sensor string) *SystemSampler {
	return &SystemSampler{
		iface:  iface,
		sensor: strings.ToLower(sensor),
	}
}

func (s *SystemSampler) Sample(ctx context.Context) (sample Sample, err error) {
	var load []float64
	if load, err = cpu.PercentWithContext(ctx, 0, false); err != nil {
		return sample, fmt.Errorf("sysinfo: cpu load: %w", err)
	}
	if len(load) > 0 {
		sample.Load = load[0]
	}

	if info, err := cpu.InfoWithContext(ctx); err == nil {
		for _, core := range info {
			sample.Frequency = max(sample.Frequency, core.Mhz/1000)
		}
	}

	var memory *mem.VirtualMemoryStat
	if memory, err = mem.VirtualMemoryWithContext(ctx); err != nil {
		return sample, fmt.Errorf("sysinfo: memory: %w", err)
	}
	sample.MemoryUsed, sample.MemoryTotal = memory.Used, memory.Total

	if err = s.sampleNet(ctx, &sample); err != nil {
		return
	}

	// Sensor errors are often warnings for a single unreadable sensor.
	temps, _ := host.SensorsTemperaturesWithContext(ctx)
	sample.Temperature = s.temperature(temps)
	return sample, nil
}

func (s *SystemSampler) sampleNet(ctx context.Context, sample *Sample) error {
	counters, err := net.IOCountersWithContext(ctx, true)
	if err != nil {
		return fmt.Errorf("sysinfo: network: %w", err)
	}
	i := slices.IndexFunc(counters, func(c net.IOCountersStat) bool { return c.Name == s.iface })
	if i < 0 {
		return fmt.Errorf("sysinfo: network interface %q not found", s.iface)
	}

	var (
		now     = time.Now()
		counter = counters[i]
	)
	if !s.last.IsZero() {
		elapsed := now.Sub(s.last).Seconds()
		if elapsed > 0 && counter.BytesRecv >= s.received && counter.BytesSent >= s.sent {
			sample.Receive = float64(counter.BytesRecv-s.received) / elapsed
			sample.Transmit = float64(counter.BytesSent-s.sent) / elapsed
		}
	}
	s.last, s.received, s.sent = now, counter.BytesRecv, counter.BytesSent
	return nil
}

func (s *SystemSampler) temperature(temps []host.TemperatureStat) (celsius float64) {
	for _, t := range temps {
		if s.sensor == "" {
			celsius = max(celsius, t.Temperature)
		} else if strings.Contains(strings.ToLower(t.SensorKey), s.sensor) {
			return t.Temperature
		}
	}
	return
}
