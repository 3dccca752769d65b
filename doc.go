/*
Package imgrt is the runtime support library for a small image scripting
language. It provides the dynamically typed values scripts manipulate and the
image kernels behind the language's operators and built-in functions.

Values are a closed set of kinds: integers, floats, strings, booleans, colors,
images and null. The zero Value is null. Images own an RGB raster from
package raster and are never modified once created: every operation that
produces an image allocates a new one.

Operators:

  - + concatenates when either side is a string, composites two images
    (channel sum over the common area), and otherwise adds numbers
  - - takes the absolute channel difference of two images, and otherwise
    subtracts numbers; an image minus null reports an Event and returns the image
  - * scales an image by a number, and otherwise multiplies numbers
  - / divides numbers only
  - > and < compare numbers as floats
  - == compares kind and payload; an integer never equals a float

Integer operands keep integer results; any float operand promotes the result
to float. Operand combinations with no meaning fail with an error wrapping
ErrTypeMismatch.

Basic Usage:

	rt := imgrt.New()

	img := rt.Load(imgrt.String("photo.png")) // null if the file cannot be read
	soft, err := rt.Blur(img, imgrt.Int(2))
	if err != nil {
	    log.Fatal(err)
	}
	edges, err := rt.Sub(img, soft)
	if err != nil {
	    log.Fatal(err)
	}
	if err := rt.Save(edges, imgrt.String("edges.png")); err != nil {
	    log.Fatal(err)
	}

Calling built-ins by name:

	v, err := rt.Call("avg", img)

Recoverable conditions are reported through an Observer instead of failing:

	rt := imgrt.New(imgrt.WithObserver(imgrt.ObserverFunc(func(e imgrt.Event) {
	    fmt.Println(e.Op, e.Message)
	})))
*/
package imgrt
