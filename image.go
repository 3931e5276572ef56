package pirogue

import (
	"fmt"
	"io"
	"sort"

	"github.com/fxamacker/cbor/v2"

	"github.com/jcorbin/pirogue/internal/bytecode"
)

// ImageVersion is the version of the image format written by SaveImage.
const ImageVersion = 1

// Image is a saved VM: every dictionary word with its full definition
// history, and memory contents without trailing zeros. The stack is not part
// of an image.
type Image struct {
	Version int                        `cbor:"1,keyasint"`
	Words   map[string][]bytecode.Code `cbor:"2,keyasint"`
	Memory  []byte                     `cbor:"3,keyasint,omitempty"`
}

var imageEncMode cbor.EncMode

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("pirogue: failed to create CBOR enc mode: %v", err))
	}
	imageEncMode = em
}

// Image returns a snapshot of the VM's dictionary and memory.
func (vm *VM) Image() Image {
	img := Image{
		Version: ImageVersion,
		Words:   make(map[string][]bytecode.Code),
		Memory:  vm.mem.Snapshot(),
	}
	for _, name := range vm.mem.Words() {
		img.Words[name] = append([]bytecode.Code(nil), vm.mem.History(name)...)
	}
	return img
}

// SaveImage writes the VM's image to w as canonical CBOR.
func (vm *VM) SaveImage(w io.Writer) error {
	if err := imageEncMode.NewEncoder(w).Encode(vm.Image()); err != nil {
		return ImageError.Wrap(err, "cannot save image")
	}
	return nil
}

// LoadImage reads an image written by SaveImage and applies it with
// Restore.
func (vm *VM) LoadImage(r io.Reader) error {
	var img Image
	if err := cbor.NewDecoder(r).Decode(&img); err != nil {
		return ImageError.Wrap(err, "cannot load image")
	}
	return vm.Restore(img)
}

// Restore replaces memory contents with the image's, and appends each of
// its definitions, oldest first, to the dictionary; words already defined
// keep their prior history beneath the image's.
func (vm *VM) Restore(img Image) error {
	if img.Version != ImageVersion {
		return ImageError.New("unsupported image version %v", img.Version)
	}
	if err := vm.mem.Restore(img.Memory); err != nil {
		return ImageError.Wrap(err, "image memory does not fit")
	}
	names := make([]string, 0, len(img.Words))
	for name := range img.Words {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		for _, code := range img.Words[name] {
			vm.Define(name, code)
		}
	}
	return nil
}
