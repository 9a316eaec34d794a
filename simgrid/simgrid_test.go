package simgrid

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simgrid/simgrid/internal/resource"
)

const twoHostPlatformXML = `<?xml version="1.0"?>
<platform version="4.1">
  <zone id="AS0" routing="Full">
    <host id="H1" speed="1Gf" core="1"/>
    <host id="H2" speed="1Gf" core="1"/>
    <link id="L1" bandwidth="100MBps" latency="1ms"/>
    <route src="H1" dst="H2">
      <link_ctn id="L1"/>
    </route>
  </zone>
</platform>`

func writePlatform(t *testing.T, xml string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "platform.xml")
	require.NoError(t, os.WriteFile(path, []byte(xml), 0o644))
	return path
}

func TestLoadPlatformRegistersHosts(t *testing.T) {
	eng := NewEngine()
	require.NoError(t, eng.LoadPlatform(writePlatform(t, twoHostPlatformXML)))

	h1, ok := eng.HostByName("H1")
	require.True(t, ok)
	require.Equal(t, "H1", h1.Name())
	require.InDelta(t, 1e9, h1.Speed(), 1e-6)

	l1, ok := eng.LinkByName("L1")
	require.True(t, ok)
	require.InDelta(t, 1e8, l1.Bandwidth(), 1e-6)

	_, ok = eng.HostByName("ghost")
	require.False(t, ok)
}

func TestSendRecvAcrossHosts(t *testing.T) {
	eng := NewEngine()
	require.NoError(t, eng.LoadPlatform(writePlatform(t, twoHostPlatformXML)))
	h1, _ := eng.HostByName("H1")
	h2, _ := eng.HostByName("H2")
	mb := eng.GetMailbox("m")

	var sendErr, recvErr error
	var sendDone, recvDone float64
	h1.AddActor("sender", func(self *Actor) {
		sendErr = self.Send(mb, 1e6)
		sendDone = self.engine.Clock()
	})
	h2.AddActor("receiver", func(self *Actor) {
		recvErr = self.Recv(mb)
		recvDone = self.engine.Clock()
	})

	eng.Run()

	require.NoError(t, sendErr)
	require.NoError(t, recvErr)
	require.InDelta(t, 0.011, sendDone, 1e-6)
	require.InDelta(t, 0.011, recvDone, 1e-6)
}

func TestExecuteConsumesCpuTime(t *testing.T) {
	eng := NewEngine()
	require.NoError(t, eng.LoadPlatform(writePlatform(t, twoHostPlatformXML)))
	h1, _ := eng.HostByName("H1")

	var execErr error
	var done float64
	h1.AddActor("worker", func(self *Actor) {
		execErr = self.Execute(1e9) // 1 second at 1Gf
		done = self.engine.Clock()
	})

	eng.Run()

	require.NoError(t, execErr)
	require.InDelta(t, 1.0, done, 1e-6)
}

func TestJoinWaitsForTargetTermination(t *testing.T) {
	eng := NewEngine()
	require.NoError(t, eng.LoadPlatform(writePlatform(t, twoHostPlatformXML)))
	h1, _ := eng.HostByName("H1")

	var joined float64
	var worker *Actor
	h1.AddActor("worker", func(self *Actor) {
		worker = self
		_ = self.SleepFor(0.5)
	})
	h1.AddActor("waiter", func(self *Actor) {
		for worker == nil {
			self.Yield()
		}
		self.Join(worker)
		joined = self.engine.Clock()
	})

	eng.Run()

	require.InDelta(t, 0.5, joined, 1e-6)
}

func TestHostTurnOffFailsInFlightExec(t *testing.T) {
	eng := NewEngine()
	require.NoError(t, eng.LoadPlatform(writePlatform(t, twoHostPlatformXML)))
	h1, _ := eng.HostByName("H1")

	var execErr error
	var issuer *Actor
	h1.AddActor("victim", func(self *Actor) {
		execErr = self.Execute(1e12) // long enough to still be running
	})
	h1.AddActor("killer", func(self *Actor) {
		issuer = self
		_ = self.SleepFor(0.1)
		h1.TurnOff(issuer)
	})

	eng.Run()

	require.Error(t, execErr)
}

func TestDiskReadWrite(t *testing.T) {
	eng := NewEngine()
	require.NoError(t, eng.LoadPlatform(writePlatform(t, twoHostPlatformXML)))
	h1, _ := eng.HostByName("H1")
	disk := h1.CreateDisk("d1", 1e8, 1e8)

	var ioErr error
	var done float64
	h1.AddActor("writer", func(self *Actor) {
		ioErr = self.Io(disk, 1e7, resource.Write)
		done = self.engine.Clock()
	})

	eng.Run()

	require.NoError(t, ioErr)
	require.Greater(t, done, 0.0)
}
