//go:build rp2040

package main

import (
	"machine"
	"time"

	"if482gen/core"
)

// DS3231 SQW output wired to this pin; one rising edge per second.
const edgePin = machine.GP22

func main() {
	// IF482 line discipline: 9600 baud, 7 data bits, even parity, 1 stop.
	uart := machine.UART1
	uart.Configure(machine.UARTConfig{
		BaudRate: 9600,
		TX:       machine.UART1_TX_PIN,
		RX:       machine.UART1_RX_PIN,
	})
	uart.SetFormat(7, 1, machine.ParityEven)

	clock := hwClock{}

	rtc, err := newRTCSource(machine.I2C0)
	if err != nil {
		// No RTC, no telegrams. Hold here rather than transmit garbage;
		// the status LED pattern tells the operator what happened.
		for {
			blinkFault()
		}
	}

	edge := core.NewEdgeSignal()
	handler := edge.Handler(clock)

	edgePin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	edgePin.SetInterrupt(machine.PinRising, func(machine.Pin) {
		handler()
	})

	loop, err := core.NewLoop(core.DefaultConfig(), clock, rtc, edge, uart)
	if err != nil {
		for {
			blinkFault()
		}
	}

	// UART writes on this target do not fail; Run does not return.
	loop.Run()
}

// blinkFault flashes the onboard LED in a slow fault pattern.
func blinkFault() {
	led := machine.LED
	led.Configure(machine.PinConfig{Mode: machine.PinOutput})
	led.High()
	time.Sleep(100 * time.Millisecond)
	led.Low()
	time.Sleep(900 * time.Millisecond)
}
