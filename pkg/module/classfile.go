// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package module

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

const classMagic = 0xCAFEBABE

// Constant pool tags.
const (
	tagUtf8               = 1
	tagInteger            = 3
	tagFloat              = 4
	tagLong               = 5
	tagDouble             = 6
	tagClass              = 7
	tagString             = 8
	tagFieldref           = 9
	tagMethodref          = 10
	tagInterfaceMethodref = 11
	tagNameAndType        = 12
	tagMethodHandle       = 15
	tagMethodType         = 16
	tagDynamic            = 17
	tagInvokeDynamic      = 18
	tagModule             = 19
	tagPackage            = 20
)

var errNoModuleAttribute = errors.New("class file has no Module attribute")

type cpEntry struct {
	tag  byte
	ref  uint16
	utf8 string
}

type classReader struct {
	r   *bufio.Reader
	err error
}

func (c *classReader) u1() byte {
	if c.err != nil {
		return 0
	}
	b, err := c.r.ReadByte()
	c.err = err
	return b
}

func (c *classReader) u2() uint16 {
	var b [2]byte
	c.read(b[:])
	return binary.BigEndian.Uint16(b[:])
}

func (c *classReader) u4() uint32 {
	var b [4]byte
	c.read(b[:])
	return binary.BigEndian.Uint32(b[:])
}

func (c *classReader) read(b []byte) {
	if c.err != nil {
		return
	}
	_, c.err = io.ReadFull(c.r, b)
}

func (c *classReader) skip(n int) {
	if c.err != nil {
		return
	}
	_, c.err = c.r.Discard(n)
}

// ParseModuleInfo reads a compiled module-info class and returns the module name.
func ParseModuleInfo(r io.Reader) (string, error) {
	c := &classReader{r: bufio.NewReader(r)}

	if c.u4() != classMagic {
		if c.err != nil {
			return "", c.err
		}
		return "", errors.New("not a class file")
	}
	c.skip(4) // minor and major version

	pool, err := readConstantPool(c)
	if err != nil {
		return "", err
	}

	c.skip(6) // access flags, this class, super class
	c.skip(2 * int(c.u2()))
	for range 2 { // fields, methods
		count := int(c.u2())
		for range count {
			c.skip(6)
			skipAttributes(c)
		}
	}

	attrCount := int(c.u2())
	for range attrCount {
		nameIdx := c.u2()
		length := int(c.u4())
		if c.err != nil {
			return "", c.err
		}
		if utf8At(pool, nameIdx) != "Module" {
			c.skip(length)
			continue
		}
		moduleIdx := c.u2()
		if c.err != nil {
			return "", c.err
		}
		if int(moduleIdx) >= len(pool) || pool[moduleIdx].tag != tagModule {
			return "", fmt.Errorf("module_name_index %d is not a CONSTANT_Module", moduleIdx)
		}
		name := utf8At(pool, pool[moduleIdx].ref)
		if name == "" {
			return "", errors.New("empty module name")
		}
		return name, nil
	}
	if c.err != nil {
		return "", c.err
	}
	return "", errNoModuleAttribute
}

func readConstantPool(c *classReader) ([]cpEntry, error) {
	count := int(c.u2())
	pool := make([]cpEntry, count)
	for i := 1; i < count; i++ {
		tag := c.u1()
		e := cpEntry{tag: tag}
		switch tag {
		case tagUtf8:
			b := make([]byte, c.u2())
			c.read(b)
			e.utf8 = string(b)
		case tagClass, tagString, tagMethodType, tagModule, tagPackage:
			e.ref = c.u2()
		case tagInteger, tagFloat, tagFieldref, tagMethodref, tagInterfaceMethodref,
			tagNameAndType, tagDynamic, tagInvokeDynamic:
			c.skip(4)
		case tagMethodHandle:
			c.skip(3)
		case tagLong, tagDouble:
			c.skip(8)
			pool[i] = e
			i++ // eight-byte constants take two slots
			continue
		default:
			if c.err != nil {
				return nil, c.err
			}
			return nil, fmt.Errorf("unknown constant pool tag %d at index %d", tag, i)
		}
		if c.err != nil {
			return nil, c.err
		}
		pool[i] = e
	}
	return pool, c.err
}

func skipAttributes(c *classReader) {
	count := int(c.u2())
	for range count {
		c.skip(2)
		c.skip(int(c.u4()))
	}
}

func utf8At(pool []cpEntry, idx uint16) string {
	if int(idx) >= len(pool) || pool[idx].tag != tagUtf8 {
		return ""
	}
	return pool[idx].utf8
}
