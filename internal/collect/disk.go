package collect

import (
	"context"
	"fmt"
	"strings"

	"github.com/shirou/gopsutil/v3/disk"
)

func collectDisk(ctx context.Context, _ Mode) (DiskInfo, error) {
	parts, err := disk.PartitionsWithContext(ctx, false)
	if err != nil {
		return DiskInfo{}, fmt.Errorf("disk partitions: %w", err)
	}

	var info DiskInfo
	for _, part := range parts {
		usage, err := disk.UsageWithContext(ctx, part.Mountpoint)
		if err != nil || usage.Total == 0 {
			// Pseudo and unreadable filesystems are not disks.
			continue
		}

		info.Disks = append(info.Disks, DiskRecord{
			Device:     part.Device,
			Mountpoint: part.Mountpoint,
			Filesystem: part.Fstype,
			Used:       usage.Used,
			Total:      usage.Total,
			Removable:  isRemovable(part.Mountpoint, part.Fstype),
		})
	}

	return info, nil
}

// isRemovable marks volumes that should not count toward the aggregate:
// mounts under the usual removable-media roots, plus the FAT variants
// that flash drives ship with.
func isRemovable(mountpoint, fstype string) bool {
	for _, prefix := range []string{"/media/", "/run/media/", "/mnt/usb", "/Volumes/"} {
		if strings.HasPrefix(mountpoint, prefix) {
			return true
		}
	}
	switch strings.ToLower(fstype) {
	case "vfat", "exfat", "msdos":
		return true
	}
	return false
}
