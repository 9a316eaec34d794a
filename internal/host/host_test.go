package host

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/simgrid/simgrid/internal/resource"
)

type fakeActor struct {
	pid         int64
	autoRestart bool
	killed      bool
}

func (f *fakeActor) PID() int64        { return f.pid }
func (f *fakeActor) Kill(_ int64)      { f.killed = true }
func (f *fakeActor) AutoRestart() bool { return f.autoRestart }

func newTestHost(name string) *Host {
	cpu := resource.NewCpu(name+"-cpu", []float64{1e9}, 1)
	return New(name, cpu, nil)
}

func TestTurnOffFailsActivitiesBeforeKillingActors(t *testing.T) {
	h := newTestHost("H1")
	var failedBeforeKill bool
	a := &fakeActor{pid: 1}
	h.AddActor(a, BootEntry{Name: "a"})
	h.CancelHostActivities = func(name string) {
		require.Equal(t, "H1", name)
		require.False(t, a.killed, "activities must be failed before resident actors are killed")
		failedBeforeKill = true
	}

	h.TurnOff(0)

	require.True(t, failedBeforeKill)
	require.True(t, a.killed)
	require.False(t, h.IsOn())
}

func TestTurnOffKeepsOnlyAutoRestartActorsForReboot(t *testing.T) {
	h := newTestHost("H1")
	persistent := &fakeActor{pid: 1, autoRestart: true}
	transient := &fakeActor{pid: 2, autoRestart: false}
	h.AddActor(persistent, BootEntry{Name: "persistent"})
	h.AddActor(transient, BootEntry{Name: "transient"})

	h.TurnOff(0)

	require.Empty(t, h.Actors())
	var recreated []string
	h.BootFn = func(entry BootEntry) { recreated = append(recreated, entry.Name) }
	h.TurnOn()

	require.Equal(t, []string{"persistent"}, recreated)
	require.True(t, h.IsOn())
}

func TestCreateVMPinsPhysicalHost(t *testing.T) {
	h := newTestHost("H1")
	vmCpu := resource.NewCpu("vm-cpu", []float64{5e8}, 1)
	vm := New("VM1", vmCpu, nil)

	h.CreateVM(vm)

	require.Equal(t, h, vm.PhysicalHost)
	require.Equal(t, []*Host{vm}, h.VMs())
}

func TestRemoveActorDropsFromResidencyAndBootRoster(t *testing.T) {
	h := newTestHost("H1")
	a1 := &fakeActor{pid: 1}
	a2 := &fakeActor{pid: 2}
	h.AddActor(a1, BootEntry{Name: "a1"})
	h.AddActor(a2, BootEntry{Name: "a2"})

	h.RemoveActor(1)

	require.Len(t, h.Actors(), 1)
	require.Equal(t, int64(2), h.Actors()[0].PID())
	require.Len(t, h.actorsAtBoot, 1)
	require.Equal(t, "a2", h.actorsAtBoot[0].Name)
}
